package service

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/guttosm/label-service/internal/domain/model"
)

// MaxBatchQuantity is the largest number of labels a single batch may contain.
const MaxBatchQuantity = 500

// Plan expands a starting serial into quantity consecutive serials.
// Each value is zero-padded to the width of startSerial; once the count needs
// more digits the value grows instead of truncating or wrapping.
func Plan(startSerial string, quantity int) ([]string, error) {
	if !model.IsDigits(startSerial) {
		return nil, fmt.Errorf("start serial %q: %w", startSerial, model.ErrInvalidSerialFormat)
	}
	if quantity < 1 || quantity > MaxBatchQuantity {
		return nil, fmt.Errorf("quantity %d not in [1, %d]: %w", quantity, MaxBatchQuantity, model.ErrQuantityOutOfRange)
	}

	width := len(startSerial)
	serials := make([]string, quantity)

	// Fast path: the last value still fits in a uint64.
	if start, err := strconv.ParseUint(startSerial, 10, 64); err == nil && start <= ^uint64(0)-uint64(quantity) {
		for i := range serials {
			serials[i] = pad(strconv.FormatUint(start+uint64(i), 10), width)
		}
		return serials, nil
	}

	n, ok := new(big.Int).SetString(startSerial, 10)
	if !ok {
		return nil, fmt.Errorf("start serial %q: %w", startSerial, model.ErrInvalidSerialFormat)
	}
	one := big.NewInt(1)
	for i := range serials {
		serials[i] = pad(n.String(), width)
		n.Add(n, one)
	}
	return serials, nil
}

// PlanIdentifiers plans the serials of req and attaches system and period to each.
func PlanIdentifiers(req model.BatchRequest) ([]model.SerialIdentifier, error) {
	serials, err := Plan(req.StartSerial, req.Quantity)
	if err != nil {
		return nil, err
	}
	ids := make([]model.SerialIdentifier, len(serials))
	for i, s := range serials {
		ids[i] = model.SerialIdentifier{
			SystemID: req.SystemID,
			Year:     req.Year,
			Month:    req.Month,
			Serial:   s,
		}
	}
	return ids, nil
}

func pad(digits string, width int) string {
	if len(digits) >= width {
		return digits
	}
	return strings.Repeat("0", width-len(digits)) + digits
}
