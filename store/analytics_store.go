// api/store/analytics_store.go
package store

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"shopfront/api/database"
	"shopfront/api/models"
	"shopfront/api/utils"
)

type AnalyticsStore struct {
	DB *database.ClickHouseClient
}

type CountByTime struct {
	Time      time.Time `json:"time"`
	EventType *string   `json:"eventType,omitempty"`
	Count     uint64    `json:"count"`
}

func NewAnalyticsStore(chClient *database.ClickHouseClient) *AnalyticsStore {
	return &AnalyticsStore{
		DB: chClient,
	}
}

// parseEventTime turns the client-supplied ISO timestamp into a time.Time,
// falling back to the collector's receipt time when absent or malformed.
func parseEventTime(iso string, fallback time.Time) time.Time {
	if iso == "" {
		return fallback
	}
	ts, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return fallback
	}
	return ts
}

// InsertEvents writes collected envelopes into the store_events table. The
// open part of each envelope lands in the event_data JSON column.
func (s *AnalyticsStore) InsertEvents(ctx context.Context, events []models.Envelope) error {
	if len(events) == 0 {
		return nil
	}

	// Column names and order must exactly match the store_events schema.
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO store_events (
			event_id, session_id, event_type, action, element_id, element_tag,
			url, user_agent, ip_address, timestamp, received_at, event_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	now := time.Now().UTC()
	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.SessionID,
			event.EventType,
			event.Action(),
			event.ElementID,
			event.ElementTag,
			event.URL,
			event.UserAgent,
			event.IPAddress,
			parseEventTime(event.Timestamp, now),
			parseEventTime(event.ReceivedAt, now),
			event.ExtraJSON(),
		)
		if err != nil {
			log.Printf("Error appending event to batch (EventID: %s): %v", event.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	return nil
}

// GetEventCountsOverTime buckets event counts by the given interval,
// optionally filtered to a single event type.
func (s *AnalyticsStore) GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]CountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	var args []interface{}
	args = append(args, start, end)

	selectCols := fmt.Sprintf("toStartOf%s(timestamp) as time_bucket, count() as total_events", interval)
	groupByCols := "time_bucket"
	whereClause := "WHERE timestamp >= ? AND timestamp <= ?"
	orderByCols := "time_bucket ASC"
	isFilteringByType := eventTypeFilter != ""

	if isFilteringByType {
		selectCols += ", event_type"
		groupByCols += ", event_type"
		whereClause += " AND event_type = ?"
		args = append(args, eventTypeFilter)
		orderByCols += ", event_type ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM store_events
		%s
		GROUP BY %s
		ORDER BY %s
	`, selectCols, whereClause, groupByCols, orderByCols)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event counts over time: %w", err)
	}
	defer rows.Close()

	var results []CountByTime
	for rows.Next() {
		var (
			timeBucket    time.Time
			count         uint64
			eventTypeDB   string
			currentResult CountByTime
		)

		if isFilteringByType {
			if err := rows.Scan(&timeBucket, &count, &eventTypeDB); err != nil {
				log.Printf("Error scanning row for event counts over time (with type filter): %v", err)
				continue
			}
			currentResult.EventType = &eventTypeDB
		} else {
			if err := rows.Scan(&timeBucket, &count); err != nil {
				log.Printf("Error scanning row for event counts over time (no type filter): %v", err)
				continue
			}
		}

		currentResult.Time = timeBucket
		currentResult.Count = count
		results = append(results, currentResult)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event counts over time query: %w", err)
	}

	return results, nil
}

// GetUniqueSessionsOverTime buckets distinct anonymous sessions by interval.
func (s *AnalyticsStore) GetUniqueSessionsOverTime(ctx context.Context, interval string, start, end time.Time) ([]CountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	query := fmt.Sprintf(`
		SELECT toStartOf%s(timestamp) AS time_bucket, uniq(session_id) AS unique_sessions
		FROM store_events
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY time_bucket
		ORDER BY time_bucket ASC
	`, interval)

	rows, err := s.DB.Conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query unique sessions over time: %w", err)
	}
	defer rows.Close()

	var results []CountByTime
	for rows.Next() {
		var timeBucket time.Time
		var uniqueSessions uint64
		if err := rows.Scan(&timeBucket, &uniqueSessions); err != nil {
			log.Printf("Error scanning row for unique sessions: %v", err)
			continue
		}
		results = append(results, CountByTime{
			Time:  timeBucket,
			Count: uniqueSessions,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for unique sessions: %w", err)
	}

	return results, nil
}

// GetTopActions returns the most frequent click actions (add_to_cart,
// view_product, ...) in the window.
func (s *AnalyticsStore) GetTopActions(ctx context.Context, start, end time.Time, limit uint64) ([]models.TopActionResult, error) {
	if limit == 0 {
		limit = 10
	}

	query := `
		SELECT action, count() as action_count
		FROM store_events
		WHERE event_type = 'click' AND action != '' AND timestamp >= ? AND timestamp <= ?
		GROUP BY action
		ORDER BY action_count DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top actions: %w", err)
	}
	defer rows.Close()

	var results []models.TopActionResult
	for rows.Next() {
		var action string
		var count uint64
		if err := rows.Scan(&action, &count); err != nil {
			log.Printf("Error scanning row for top actions: %v", err)
			continue
		}
		results = append(results, models.TopActionResult{
			Action: action,
			Count:  count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for top actions: %w", err)
	}

	return results, nil
}

// GetConversionRevenue sums and averages the order totals carried by
// conversion events. The total lives in the open part of the envelope, so it
// is extracted from the event_data JSON column.
func (s *AnalyticsStore) GetConversionRevenue(ctx context.Context, start, end time.Time) (sum float64, avg float64, err error) {
	query := `
		SELECT
			sum(JSONExtractFloat(toString(event_data), 'total')),
			avg(JSONExtractFloat(toString(event_data), 'total'))
		FROM store_events
		WHERE event_type = 'conversion' AND timestamp >= ? AND timestamp <= ?
	`

	err = s.DB.Conn.QueryRow(ctx, query, start, end).Scan(&sum, &avg)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return 0.0, 0.0, nil
		}
		return 0.0, 0.0, fmt.Errorf("failed to query conversion revenue: %w", err)
	}

	// avg() over zero rows yields NaN, which standard JSON cannot carry.
	if math.IsNaN(avg) {
		avg = 0.0
	}
	if math.IsNaN(sum) {
		sum = 0.0
	}

	return sum, avg, nil
}
