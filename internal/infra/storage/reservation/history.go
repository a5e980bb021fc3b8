package reservation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// historyEntry формат элемента reschedule_history (jsonb)
type historyEntry struct {
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	RescheduledBy string    `json:"rescheduledBy"`
	Reason        *string   `json:"reason,omitempty"`
	RescheduledAt time.Time `json:"rescheduledAt"`
}

func encodeHistory(entries []domain.RescheduleEntry) ([]byte, error) {
	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			Date:          e.Date.Format(domain.DateFormat),
			StartTime:     e.StartTime.String(),
			EndTime:       e.EndTime.String(),
			RescheduledBy: string(e.RescheduledBy),
			Reason:        e.Reason,
			RescheduledAt: e.RescheduledAt.UTC(),
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeHistory, err)
	}
	return data, nil
}

func decodeHistory(data []byte) ([]domain.RescheduleEntry, error) {
	if len(data) == 0 {
		return []domain.RescheduleEntry{}, nil
	}

	var raw []historyEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode reschedule history: %v", ErrScanRow, err)
	}

	entries := make([]domain.RescheduleEntry, 0, len(raw))
	for _, e := range raw {
		date, err := time.Parse(domain.DateFormat, e.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: history date %q: %v", ErrScanRow, e.Date, err)
		}
		start, err := types.NewTimeStringFromString(e.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: history start %q: %v", ErrScanRow, e.StartTime, err)
		}
		end, err := types.NewTimeStringFromString(e.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: history end %q: %v", ErrScanRow, e.EndTime, err)
		}
		entries = append(entries, domain.RescheduleEntry{
			Date:          date,
			StartTime:     start,
			EndTime:       end,
			RescheduledBy: domain.Actor(e.RescheduledBy),
			Reason:        e.Reason,
			RescheduledAt: e.RescheduledAt,
		})
	}
	return entries, nil
}
