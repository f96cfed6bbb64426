package mysql

import (
	"context"
	"encoding/json"

	"hotel_booking/internal/domain"
)

func (r *Repo) SaveRecord(ctx context.Context, rec domain.StatisticsRecord) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertStatSQL,
		rec.ID, rec.EventType, rec.UserID, rec.OccurredAt, string(data))
	return err
}

func (r *Repo) ListRecords(ctx context.Context) ([]domain.StatisticsRecord, error) {
	rows, err := r.db.QueryContext(ctx, listStatsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StatisticsRecord
	for rows.Next() {
		var rec domain.StatisticsRecord
		var data []byte
		if err := rows.Scan(&rec.ID, &rec.EventType, &rec.UserID, &rec.OccurredAt, &data); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &rec.Data); err != nil {
				return nil, err
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
