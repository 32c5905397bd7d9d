package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryRequestValidate(t *testing.T) {
	ptr := func(s string) *string { return &s }
	result := func(r GameResult) *GameResult { return &r }

	tests := []struct {
		name    string
		req     HistoryRequest
		wantErr string
	}{
		{name: "empty", req: HistoryRequest{}},
		{name: "won", req: HistoryRequest{Result: result(GameResultWon)}},
		{name: "bad result", req: HistoryRequest{Result: result("DRAW")}, wantErr: "result must be WON or LOST"},
		{name: "range", req: HistoryRequest{MinAmount: ptr("100"), MaxAmount: ptr("2000")}},
		{name: "inverted range", req: HistoryRequest{MinAmount: ptr("300"), MaxAmount: ptr("100")}, wantErr: "minAmount must be less than or equal to maxAmount"},
		{name: "bad min", req: HistoryRequest{MinAmount: ptr("ten")}, wantErr: "invalid minAmount"},
		{name: "bad max", req: HistoryRequest{MaxAmount: ptr("1e")}, wantErr: "invalid maxAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
