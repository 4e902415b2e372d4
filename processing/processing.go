package processing

import (
	"context"
	"time"

	"github.com/Shkitskiy94/hw05-final/config"
	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/models"
	"github.com/Shkitskiy94/hw05-final/storage"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"
)

type processingTask interface {
	getName() string
	shouldHandle(*models.Post) bool
	process(*models.Post, storage.StorageAPI) int
}

var (
	tasks = map[string]processingTask{}
)

func registerTask(t processingTask) {
	tasks[t.getName()] = t
}

func Init() error {
	if err := db.Instance.AutoMigrate(&ProcessingTask{}); err != nil {
		return err
	}
	registerTask(&thumb{size: uint(config.THUMB_SIZE)})
	return nil
}

// getNextForProcessing returns the next post with an image that has no
// processing record yet. Zero ID means there is nothing to do.
func getNextForProcessing(lastProcessedID uint64) (result models.Post) {
	processed := db.Instance.Model(&ProcessingTask{}).Select("post_id")
	db.Instance.
		Where("image <> '' AND id > ? AND id NOT IN (?)", lastProcessedID, processed).
		Order("id ASC").
		Limit(1).
		Find(&result)
	return
}

// processOne runs every registered task once and records the outcome.
// Failed tasks are not retried.
func processOne(post *models.Post) uint64 {
	current := ProcessingTask{PostID: post.ID}
	statusMap := current.statusToMap()
	store := storage.GetDefaultStorage()
	for taskName, task := range tasks {
		if !task.shouldHandle(post) {
			statusMap[taskName] = Skipped
			continue
		}
		start := time.Now()
		statusMap[taskName] = task.process(post, store)
		log.WithFields(log.Fields{
			"task":   taskName,
			"post":   post.ID,
			"result": statusMap[taskName],
			"ms":     time.Since(start).Milliseconds(),
		}).Info("Processing task finished")
	}
	current.updateWith(statusMap)
	err := db.Instance.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&current).Error
	if err != nil {
		log.WithError(err).WithField("post", post.ID).Error("Cannot save processing status")
	}
	return post.ID
}

// ProcessPending handles everything that is waiting and returns how many
// posts were processed.
func ProcessPending(ctx context.Context) (count int) {
	lastProcessedID := uint64(0)
	for ctx.Err() == nil {
		post := getNextForProcessing(lastProcessedID)
		if post.ID == 0 {
			return
		}
		lastProcessedID = processOne(&post)
		count++
	}
	return
}

func StartProcessing(ctx context.Context) {
	interval := time.Duration(config.PROCESSING_INTERVAL) * time.Second
	for {
		if n := ProcessPending(ctx); n > 0 {
			log.WithField("count", n).Info("Processed posts")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}
