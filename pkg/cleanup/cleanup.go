package cleanup

import (
	"log"
	"time"

	"onboard-backend/internal/repository"
)

// CleanupService periodically purges expired department codes so stale
// registration secrets cannot linger in the collection.
type CleanupService struct {
	codeRepo *repository.DepartmentCodeRepository
	interval time.Duration
	stopChan chan bool
}

func NewCleanupService(codeRepo *repository.DepartmentCodeRepository, interval time.Duration) *CleanupService {
	return &CleanupService{
		codeRepo: codeRepo,
		interval: interval,
		stopChan: make(chan bool),
	}
}

// Start begins the cleanup loop. Runs one sweep immediately.
func (s *CleanupService) Start() {
	log.Printf("Starting department code cleanup service (interval: %v)", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.purgeExpiredCodes()

	for {
		select {
		case <-ticker.C:
			s.purgeExpiredCodes()
		case <-s.stopChan:
			log.Println("Stopping department code cleanup service")
			return
		}
	}
}

func (s *CleanupService) Stop() {
	s.stopChan <- true
}

func (s *CleanupService) purgeExpiredCodes() {
	count, err := s.codeRepo.DeleteExpired(time.Now())
	if err != nil {
		log.Printf("Error purging expired department codes: %v", err)
		return
	}

	if count > 0 {
		log.Printf("Purged %d expired department codes", count)
	}
}
