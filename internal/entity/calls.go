package entity

import (
	"fmt"

	"github.com/rocketscienceinc/bingo-backend/internal/apperror"
)

// RequiredCalls is the number of general calls a board consumes.
const RequiredCalls = BoardSize*BoardSize - 1

// Calls is the call data a board is built from.
type Calls struct {
	Free    string   `json:"free"`
	General []string `json:"general"`
}

// Distinct - returns the non-empty general calls with duplicates removed, keeping first-seen order.
func (that *Calls) Distinct() []string {
	seen := make(map[string]struct{}, len(that.General))
	distinct := make([]string, 0, len(that.General))

	for _, call := range that.General {
		if call == "" {
			continue
		}
		if _, ok := seen[call]; ok {
			continue
		}
		seen[call] = struct{}{}
		distinct = append(distinct, call)
	}

	return distinct
}

// Validate - checks that the calls can fill a board.
func (that *Calls) Validate() error {
	if that.Free == "" {
		return fmt.Errorf("%w: free call is empty", apperror.ErrInsufficientCalls)
	}

	if n := len(that.Distinct()); n < RequiredCalls {
		return fmt.Errorf("%w: got %d, need %d", apperror.ErrInsufficientCalls, n, RequiredCalls)
	}

	return nil
}
