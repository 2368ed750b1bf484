package logger

import (
	"bytes"
	stdlog "log"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("JSONInProduction", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "warn", "production")

		log.Info().Msg("hidden")
		log.Warn().Str("email", "a@x.com").Msg("shown")

		var line map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())
		assert.Equal(t, "shown", line["message"])
		assert.Equal(t, ServiceName, line["service"])
		assert.Equal(t, "a@x.com", line["email"])
		assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	})

	t.Run("InvalidLevelFallsBackToInfo", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "chatty", "production")

		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
		assert.Contains(t, buf.String(), "defaulting to 'info'")
	})

	t.Run("StdlibLogRedirected", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "info", "production")

		stdlog.Print("from stdlib")

		assert.Contains(t, buf.String(), "from stdlib")
	})

	t.Run("ConsoleInDevelopment", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, "debug", "dev")

		log.Debug().Msg("pretty")

		assert.Contains(t, buf.String(), "pretty")
		assert.NotContains(t, buf.String(), `"message"`)
	})
}
