package protocol

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "HAND 1,2,3;POS,DOUBLE", Hand([]string{"1", "2", "3"}, []string{"POS", "DOUBLE"}))
	assert.Equal(t, "HAND ;", Hand(nil, nil))
	assert.Equal(t, "STATUS Player1", Status("Player1"))
	assert.Equal(t, "USED_TOOL SHUFFLE", UsedTool("SHUFFLE"))
	assert.Equal(t, "OPP_TOOL Player2 POS", OppTool("Player2", "POS"))
	assert.Equal(t, "POS_RESULT 3 7", PosResult(3, "7"))
	assert.Equal(t, "SHUFFLE_RESULT 4217", ShuffleResult("4217"))
	assert.Equal(t, "EXCLUDE_RESULT 9", ExcludeResult("9"))
	assert.Equal(t, "GUESS 1,1,2,8,9,0", Guess([]string{"1", "1", "2", "8", "9", "0"}))
	assert.Equal(t, "RESULT 4 0", Result(4, 0))
	assert.Equal(t, "OPP_GUESS Player1 1234 2 1", OppGuess("Player1", "1234", 2, 1))
	assert.Equal(t, "WINNER Player2", Winner("Player2"))
}

func TestLineScannerSplitsAndTrims(t *testing.T) {
	in := strings.NewReader("HEARTBEAT_ACK\r\n  1234 \ntrailing-without-newline")
	sc := NewLineScanner(in)

	line, err := sc.Next()
	require.NoError(t, err)
	assert.Equal(t, "HEARTBEAT_ACK", line)

	line, err = sc.Next()
	require.NoError(t, err)
	assert.Equal(t, "1234", line)

	// A final unterminated fragment is still delivered once the stream ends.
	line, err = sc.Next()
	require.NoError(t, err)
	assert.Equal(t, "trailing-without-newline", line)

	_, err = sc.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineScannerEmptyStream(t *testing.T) {
	sc := NewLineScanner(strings.NewReader(""))
	_, err := sc.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLine(t *testing.T) {
	assert.Equal(t, []byte("TOOL\n"), Line(MsgTool))
}
