// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/polystore/polystore/pkg/common/moerr"
)

func restoreLogger(t *testing.T) {
	t.Cleanup(func() {
		SetupLogger(&LogConfig{Level: "info", Format: "console", DisableStore: true})
	})
}

// readEntries decodes the json lines written to path.
func readEntries(t *testing.T, path string) []map[string]any {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestLevels(t *testing.T) {
	kases := []struct {
		level      string
		stacktrace string
		want       zapcore.Level
		wantStack  zapcore.Level
	}{
		{"debug", "", zapcore.DebugLevel, zapcore.FatalLevel},
		{"info", "error", zapcore.InfoLevel, zapcore.ErrorLevel},
		{"warn", "panic", zapcore.WarnLevel, zapcore.PanicLevel},
	}
	for _, kase := range kases {
		cfg := &LogConfig{Level: kase.level, StacktraceLevel: kase.stacktrace}
		require.Equal(t, kase.want, cfg.getLevel().Level(), kase.level)
		require.Equal(t, kase.wantStack, cfg.getStacktraceLevel(), kase.level)
	}

	require.Panics(t, func() { (&LogConfig{Level: "loud"}).getLevel() })
	require.Panics(t, func() { (&LogConfig{StacktraceLevel: "sometimes"}).getStacktraceLevel() })
}

func TestEncoders(t *testing.T) {
	entry := zapcore.Entry{Level: zapcore.WarnLevel, Message: "flush"}
	fields := []zap.Field{zap.Int("rows", 3)}

	buf, err := getLoggerEncoder("console").EncodeEntry(entry, fields)
	require.NoError(t, err)
	line := buf.String()
	require.Contains(t, line, "WARN\tflush")
	require.Contains(t, line, `{"rows": 3}`)

	for _, format := range []string{"json", ""} {
		buf, err = getLoggerEncoder(format).EncodeEntry(entry, fields)
		require.NoError(t, err)
		decoded := map[string]any{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Equal(t, "WARN", decoded["level"])
		require.Equal(t, "flush", decoded["msg"])
		require.Equal(t, float64(3), decoded["rows"])
	}

	defer func() {
		require.Equal(t, moerr.NewInternalError(context.Background(), "unsupported log format: %s", "xml"), recover())
	}()
	getLoggerEncoder("xml")
}

func TestConsoleSyncer(t *testing.T) {
	for _, cfg := range []*LogConfig{
		{Filename: ""},
		{Filename: filepath.Join(t.TempDir(), "unused.log"), DisableStore: true},
	} {
		require.Equal(t, getConsoleSyncer(), cfg.getSyncer())
	}
}

func TestFileSink(t *testing.T) {
	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "exec.log")
	cfg := &LogConfig{Level: "info", Format: "json", Filename: path, MaxBackups: 2}
	SetupLogger(cfg)
	require.Equal(t, 512, cfg.MaxSize)
	require.Equal(t, path, getGlobalLogConfig().Filename)

	Debug("dropped")
	Info("pipeline done", zap.String("ops", "σ -> γ"))
	Warnf("skipping key %s", "t:x")

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	require.Equal(t, "pipeline done", entries[0]["msg"])
	require.Equal(t, "σ -> γ", entries[0]["ops"])
	require.Equal(t, "INFO", entries[0]["level"])
	require.True(t, strings.HasPrefix(entries[0]["caller"].(string), "logutil/"))
	require.Equal(t, "skipping key t:x", entries[1]["msg"])
}

func TestFileSinkIsDirectory(t *testing.T) {
	restoreLogger(t)
	dir := t.TempDir()
	require.PanicsWithValue(t, "log file can't be a directory", func() {
		SetupLogger(&LogConfig{Level: "info", Format: "json", Filename: dir})
	})
}

func TestPipelineField(t *testing.T) {
	ctx := WithPipeline(context.Background(), "input-0")
	require.Equal(t, zap.String("pipeline", "input-0"), ContextField(ctx))
	require.Equal(t, zap.Skip(), ContextField(context.Background()))
	require.Equal(t, zap.Skip(), ContextField(context.WithValue(context.Background(), pipelineKey{}, 7)))

	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "ctx.log")
	SetupLogger(&LogConfig{Level: "debug", Format: "json", Filename: path})
	GetGlobalLogger().WithOptions(ContextFields()(ctx)).Debug("consume")

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	require.Equal(t, "input-0", entries[0]["pipeline"])
}
