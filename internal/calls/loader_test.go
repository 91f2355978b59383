package calls

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rocketscienceinc/bingo-backend/internal/apperror"
	"github.com/rocketscienceinc/bingo-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardJSON(t *testing.T, general int) []byte {
	t.Helper()

	calls := entity.Calls{Free: "FREE"}
	for i := 1; i <= general; i++ {
		calls.General = append(calls.General, fmt.Sprintf("c%d", i))
	}

	data, err := json.Marshal(calls)
	require.NoError(t, err)

	return data
}

func writeBoard(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Reads a board file", func(t *testing.T) {
		// Given: a board.json with 30 general calls
		path := writeBoard(t, boardJSON(t, 30))

		// When: loading it
		calls, err := Load(ctx, path)

		// Then: the calls are decoded
		require.NoError(t, err)
		assert.Equal(t, "FREE", calls.Free)
		assert.Len(t, calls.General, 30)
	})

	t.Run("Rejects an undersized board", func(t *testing.T) {
		// Given: a board.json with only 23 general calls
		path := writeBoard(t, boardJSON(t, 23))

		// When: loading it
		_, err := Load(ctx, path)

		// Then: ErrInsufficientCalls is returned
		assert.ErrorIs(t, err, apperror.ErrInsufficientCalls)
	})

	t.Run("Rejects malformed JSON", func(t *testing.T) {
		path := writeBoard(t, []byte(`{"free": 1`))

		_, err := Load(ctx, path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal calls")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.json"))

		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Empty source", func(t *testing.T) {
		_, err := Load(ctx, "")

		assert.ErrorIs(t, err, ErrEmptySource)
	})

	t.Run("Fetches over http", func(t *testing.T) {
		// Given: a server publishing board.json
		data := boardJSON(t, 24)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(data)
		}))
		defer srv.Close()

		// When: loading from its URL
		calls, err := Load(ctx, srv.URL+"/json/board.json")

		// Then: the calls are decoded
		require.NoError(t, err)
		assert.Len(t, calls.General, 24)
	})

	t.Run("Http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := Load(ctx, srv.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})
}
