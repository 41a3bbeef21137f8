package nestest

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-nessie/nessie"
)

const (
	romPath = "../../test-roms/nestest.nes"

	// automation mode entry point, bypassing the menu
	entryPoint = 0xC000
	// official opcodes end before this many instructions
	maxInstructions = 8991
)

// TestNestest runs nestest in automation mode. Error codes are written to
// $02 for official opcodes and $03 for unofficial ones; only the first is
// checked, unofficial opcodes stop the CPU.
func TestNestest(t *testing.T) {
	if _, err := os.Stat(romPath); os.IsNotExist(err) {
		t.Skipf("Test ROM not found: %s", romPath)
	}

	c, err := nessie.NewWithFile(romPath, nessie.DefaultOptions())
	require.NoError(t, err)

	// service the reset, then jump to the automation entry point
	require.NoError(t, c.StepInstruction())
	c.SetPC(entryPoint)

	for i := 0; i < maxInstructions; i++ {
		if err := c.StepInstruction(); err != nil {
			t.Logf("Stopped after %d instructions: %s", i, c.CrashMessage())
			break
		}
	}

	assert.Zero(t, c.Peek(0x02), "official opcode error code")
}
