package calls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rocketscienceinc/bingo-backend/internal/entity"
)

const fetchTimeout = 10 * time.Second

var ErrEmptySource = errors.New("calls source is empty")

// Load - reads the call data once from a file path or an http(s) URL and validates it.
func Load(ctx context.Context, source string) (*entity.Calls, error) {
	if source == "" {
		return nil, ErrEmptySource
	}

	var (
		data []byte
		err  error
	)

	if isURL(source) {
		data, err = fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read calls from %s: %w", source, err)
	}

	var calls entity.Calls
	if err = json.Unmarshal(data, &calls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calls from %s: %w", source, err)
	}

	if err = calls.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calls in %s: %w", source, err)
	}

	return &calls, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
