package service

import (
	"strings"
	"testing"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		quantity int
		want     []string
		wantErr  error
	}{
		{name: "keeps leading zeros", start: "0045", quantity: 3, want: []string{"0045", "0046", "0047"}},
		{name: "grows past width", start: "99", quantity: 3, want: []string{"99", "100", "101"}},
		{name: "single label", start: "7", quantity: 1, want: []string{"7"}},
		{name: "all zeros", start: "000", quantity: 2, want: []string{"000", "001"}},
		{name: "padding carries across decade", start: "0009", quantity: 2, want: []string{"0009", "0010"}},
		{
			name:     "beyond uint64",
			start:    "18446744073709551615",
			quantity: 2,
			want:     []string{"18446744073709551615", "18446744073709551616"},
		},
		{
			name:     "very wide serial",
			start:    strings.Repeat("0", 30) + "1",
			quantity: 2,
			want:     []string{strings.Repeat("0", 30) + "1", strings.Repeat("0", 30) + "2"},
		},
		{name: "empty serial", start: "", quantity: 1, wantErr: model.ErrInvalidSerialFormat},
		{name: "letters", start: "12a", quantity: 1, wantErr: model.ErrInvalidSerialFormat},
		{name: "negative sign", start: "-1", quantity: 1, wantErr: model.ErrInvalidSerialFormat},
		{name: "whitespace", start: " 1", quantity: 1, wantErr: model.ErrInvalidSerialFormat},
		{name: "zero quantity", start: "1", quantity: 0, wantErr: model.ErrQuantityOutOfRange},
		{name: "negative quantity", start: "1", quantity: -3, wantErr: model.ErrQuantityOutOfRange},
		{name: "above max", start: "1", quantity: MaxBatchQuantity + 1, wantErr: model.ErrQuantityOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.start, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlan_MaxBatch(t *testing.T) {
	got, err := Plan("0001", MaxBatchQuantity)
	require.NoError(t, err)
	require.Len(t, got, MaxBatchQuantity)
	assert.Equal(t, "0001", got[0])
	assert.Equal(t, "0500", got[MaxBatchQuantity-1])

	seen := make(map[string]struct{}, len(got))
	for _, s := range got {
		seen[s] = struct{}{}
	}
	assert.Len(t, seen, MaxBatchQuantity)
}

func TestPlan_Deterministic(t *testing.T) {
	a, err := Plan("0100", 10)
	require.NoError(t, err)
	b, err := Plan("0100", 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlanIdentifiers(t *testing.T) {
	req := model.BatchRequest{SystemID: "System A", Year: "2024", Month: "03", StartSerial: "0100", Quantity: 2}

	ids, err := PlanIdentifiers(req)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, model.SerialIdentifier{SystemID: "System A", Year: "2024", Month: "03", Serial: "0101"}, ids[1])
	assert.Equal(t, "2024030100", ids[0].LabelContent())

	_, err = PlanIdentifiers(model.BatchRequest{StartSerial: "x", Quantity: 1})
	assert.ErrorIs(t, err, model.ErrInvalidSerialFormat)
}
