package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/pkg/logger"
	"github.com/errwatch/errwatch/pkg/response"
)

// Bucket granularities for volume charts.
const (
	IntervalMinute = "minute"
	IntervalHour   = "hour"
	IntervalDay    = "day"
)

const bucketLayout = "2006-01-02 15:04:05"

// VolumePoint is one chart record: a bucket timestamp with a count per
// recognized level.
type VolumePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Error     int64     `json:"error"`
	Warn      int64     `json:"warn"`
	Info      int64     `json:"info"`
	Log       int64     `json:"log"`
}

// VolumeResponse is the volume query payload: dense per-level counts in
// chronological order plus the chosen granularity.
type VolumeResponse struct {
	Data     []VolumePoint `json:"data"`
	Interval string        `json:"interval"`
}

// VolumeService produces time-bucketed event counts for charting.
type VolumeService struct {
	db     *gorm.DB
	driver string
}

func NewVolumeService(db *gorm.DB, driver string) *VolumeService {
	return &VolumeService{db: db, driver: driver}
}

type volumeRow struct {
	Bucket string
	Level  string
	Count  int64
}

// GetVolume returns per-level counts for the owner's project over
// [start, end], bucketed by a granularity chosen from the span. Ownership
// failures come back as not-found so non-owners learn nothing about the
// project's existence.
func (s *VolumeService) GetVolume(ownerID, projectID uint, start, end time.Time) (*VolumeResponse, error) {
	if end.Before(start) {
		return nil, response.NewBadRequest("endDate must not be before startDate")
	}

	var project models.Project
	err := s.db.Where("id = ? AND owner_id = ?", projectID, ownerID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, response.NewServerErrorWithDetails("failed to resolve project", err.Error())
	}

	interval := Granularity(start, end)
	expr, err := bucketExpr(s.driver, interval)
	if err != nil {
		return nil, response.NewServerError(err.Error())
	}

	var rows []volumeRow
	err = s.db.Model(&models.ErrorEvent{}).
		Select(expr+" AS bucket, level, COUNT(*) AS count").
		Where("project_id = ? AND received_at BETWEEN ? AND ?", project.ID, start, end).
		Group("bucket, level").
		Scan(&rows).Error
	if err != nil {
		return nil, response.NewServerErrorWithDetails("volume query failed", err.Error())
	}

	return &VolumeResponse{
		Data:     pivotVolume(rows),
		Interval: interval,
	}, nil
}

// Granularity picks the bucket width from the requested span: up to two
// hours of data charts per minute, up to 48 hours per hour, anything longer
// per day. The thresholds are fixed policy.
func Granularity(start, end time.Time) string {
	span := end.Sub(start)
	switch {
	case span <= 2*time.Hour:
		return IntervalMinute
	case span <= 48*time.Hour:
		return IntervalHour
	default:
		return IntervalDay
	}
}

// bucketExpr returns the SQL expression that truncates received_at to the
// bucket start, per database dialect. Every dialect yields the same
// "YYYY-MM-DD HH:MM:SS" string so pivoting stays uniform.
func bucketExpr(driver, interval string) (string, error) {
	switch driver {
	case "sqlite":
		switch interval {
		case IntervalMinute:
			return "strftime('%Y-%m-%d %H:%M:00', received_at)", nil
		case IntervalHour:
			return "strftime('%Y-%m-%d %H:00:00', received_at)", nil
		default:
			return "strftime('%Y-%m-%d 00:00:00', received_at)", nil
		}
	case "mysql":
		switch interval {
		case IntervalMinute:
			return "DATE_FORMAT(received_at, '%Y-%m-%d %H:%i:00')", nil
		case IntervalHour:
			return "DATE_FORMAT(received_at, '%Y-%m-%d %H:00:00')", nil
		default:
			return "DATE_FORMAT(received_at, '%Y-%m-%d 00:00:00')", nil
		}
	case "postgres":
		switch interval {
		case IntervalMinute:
			return "to_char(date_trunc('minute', received_at), 'YYYY-MM-DD HH24:MI:SS')", nil
		case IntervalHour:
			return "to_char(date_trunc('hour', received_at), 'YYYY-MM-DD HH24:MI:SS')", nil
		default:
			return "to_char(date_trunc('day', received_at), 'YYYY-MM-DD HH24:MI:SS')", nil
		}
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// pivotVolume turns grouped (bucket, level, count) rows into one record per
// bucket with a field per recognized level, sorted ascending by timestamp.
// Unrecognized levels are skipped so future levels don't break charts.
// Buckets with no events at all simply don't appear; the densify step only
// zero-fills levels within returned buckets.
func pivotVolume(rows []volumeRow) []VolumePoint {
	byBucket := make(map[string]*VolumePoint)

	for _, row := range rows {
		point, ok := byBucket[row.Bucket]
		if !ok {
			ts, err := time.Parse(bucketLayout, row.Bucket)
			if err != nil {
				logger.Warnf("[Volume] unparseable bucket %q, skipping", row.Bucket)
				continue
			}
			point = &VolumePoint{Timestamp: ts.UTC()}
			byBucket[row.Bucket] = point
		}

		switch row.Level {
		case models.LevelError:
			point.Error += row.Count
		case models.LevelWarn:
			point.Warn += row.Count
		case models.LevelInfo:
			point.Info += row.Count
		case models.LevelLog:
			point.Log += row.Count
		default:
			// Forward-compatible: ignore levels this version doesn't chart.
		}
	}

	points := make([]VolumePoint, 0, len(byBucket))
	for _, point := range byBucket {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}
