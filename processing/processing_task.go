package processing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/models"

	log "github.com/sirupsen/logrus"
)

const (
	Skipped       = 0
	Done          = 2
	Failed        = 3
	FailedStorage = 4
)

type ProcessingTask struct {
	PostID uint64      `gorm:"primaryKey;autoIncrement:false"`
	Post   models.Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Status string      `gorm:"type:varchar(1024)"` // Comma-separated pairs of task and status, e.g. "thumb:2"
}

func (pt *ProcessingTask) statusToMap() map[string]int {
	result := map[string]int{}
	if pt.Status == "" {
		return result
	}
	for _, v := range strings.Split(pt.Status, ",") {
		current := strings.Split(v, ":")
		if len(current) != 2 {
			log.WithFields(log.Fields{"post": pt.PostID, "status": pt.Status}).Warn("Task status contains invalid chars")
			continue
		}
		result[current[0]], _ = strconv.Atoi(current[1])
	}
	return result
}

func (pt *ProcessingTask) updateWith(statusMap map[string]int) {
	result := []string{}
	for k, v := range statusMap {
		result = append(result, k+":"+strconv.Itoa(v))
	}
	sort.Strings(result)
	pt.Status = strings.Join(result, ",")
}

// Reset forgets what was done for a post so it is picked up again, used
// when a post gets a new image.
func Reset(postID uint64) error {
	return db.Instance.Where("post_id = ?", postID).Delete(&ProcessingTask{}).Error
}
