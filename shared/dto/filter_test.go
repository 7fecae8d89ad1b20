package dto_test

import (
	"testing"

	"gearshare/shared/dto"
)

func TestFilter_GetWhereClause_Comparisons(t *testing.T) {
	tests := []struct {
		name          string
		filter        dto.Filter
		expectedWhere string
		expectedArgs  map[string]any
	}{
		{
			name: "less",
			filter: dto.Filter{
				Field:    "start_time",
				Operator: dto.FilterOperatorLess,
				Value:    10,
				Table:    "reservations",
			},
			expectedWhere: "reservations.start_time < :start_time",
			expectedArgs:  map[string]any{"start_time": 10},
		},
		{
			name: "greater",
			filter: dto.Filter{
				Field:    "end_time",
				Operator: dto.FilterOperatorGreater,
				Value:    10,
				Table:    "reservations",
			},
			expectedWhere: "reservations.end_time > :end_time",
			expectedArgs:  map[string]any{"end_time": 10},
		},
		{
			name: "less or equal with custom argument name",
			filter: dto.Filter{
				ArgName:  "window_end",
				Field:    "start_time",
				Operator: dto.FilterOperatorLessEq,
				Value:    20,
				Table:    "reservations",
			},
			expectedWhere: "reservations.start_time <= :window_end",
			expectedArgs:  map[string]any{"window_end": 20},
		},
		{
			name: "greater or equal with custom argument name",
			filter: dto.Filter{
				ArgName:  "window_start",
				Field:    "end_time",
				Operator: dto.FilterOperatorGreaterEq,
				Value:    20,
				Table:    "reservations",
			},
			expectedWhere: "reservations.end_time >= :window_start",
			expectedArgs:  map[string]any{"window_start": 20},
		},
		{
			name: "less without table prefix",
			filter: dto.Filter{
				Field:    "created_at",
				Operator: dto.FilterOperatorLess,
				Value:    5,
			},
			expectedWhere: "created_at < :created_at",
			expectedArgs:  map[string]any{"created_at": 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			if where != tt.expectedWhere {
				t.Errorf("expected where clause to be %q, got %q", tt.expectedWhere, where)
			}

			if len(args) != len(tt.expectedArgs) {
				t.Errorf("expected %d args, got %d", len(tt.expectedArgs), len(args))
			}

			for name, value := range tt.expectedArgs {
				if args[name] != value {
					t.Errorf("expected arg %s to be %v, got %v", name, value, args[name])
				}
			}
		})
	}
}
