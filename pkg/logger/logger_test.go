package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_Level(t *testing.T) {
	InitLogger("debug")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	InitLogger("nonsense")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestComponent_TagsEntries(t *testing.T) {
	InitLogger("info")
	var buf bytes.Buffer
	Log.SetOutput(&buf)

	Component("engine").WithField("reminder_id", "r1").Info("Scan completed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "engine", line["component"])
	assert.Equal(t, "r1", line["reminder_id"])
	assert.Equal(t, "Scan completed", line["msg"])
}
