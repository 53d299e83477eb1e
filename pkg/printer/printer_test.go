package printer

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "Recibo No 00042 - Anulacion", Fold("Recibo Nº 00042 – Anulación"))
	assert.Equal(t, "Gracias!", Fold("¡Gracias!"))
	assert.Equal(t, "a?b", Fold("a€b"))
}

func TestDocumentKeyValueAndParagraph(t *testing.T) {
	doc := NewDocument(20)
	doc.KeyValue("Total:", "$ 1.187,50").
		Paragraph("Pago de la cuota número tres del servicio")

	out := doc.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{ESC, '@'}))

	lines := strings.Split(strings.TrimRight(string(out[2:]), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Total:    $ 1.187,50", lines[0])
	assert.Len(t, lines[0], 20)
	assert.Equal(t, "Pago de la cuota", lines[1])
	assert.Equal(t, "numero tres del", lines[2])
	assert.Equal(t, "servicio", lines[3])
}

func TestWrapSplitsLongWords(t *testing.T) {
	assert.Equal(t, []string{"abcd", "efgh", "ij k"}, wrap("abcdefghij k", 4))
	assert.Empty(t, wrap("   ", 4))
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("", "", "")
	require.NoError(t, err)
	assert.False(t, p.IsConnected())
	assert.NoError(t, p.Print(context.Background(), []byte("x")))

	_, err = NewPrinterFromConfig(TypeUSB, "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig(TypeNetwork, "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)

	assert.True(t, IsEnabled(TypeNetwork))
	assert.False(t, IsEnabled(TypeNone))
}

func TestUSBPrinterWritesDeviceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	p := NewUSBPrinter(path)
	assert.True(t, p.IsConnected())
	require.NoError(t, p.Print(context.Background(), []byte("ticket")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ticket", string(got))
}

func TestNetworkPrinterSendsBytes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	p := NewNetworkPrinter(ln.Addr().String())
	require.NoError(t, p.Print(context.Background(), []byte{ESC, '@', 'h', 'i'}))
	assert.Equal(t, []byte{ESC, '@', 'h', 'i'}, <-received)
}
