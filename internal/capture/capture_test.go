package capture

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/ssdpmon/internal/discovery"
	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/ssdp"
)

const byebyeDatagram = "NOTIFY * HTTP/1.1\r\n" +
	"HOST: 239.255.255.250:1900\r\n" +
	"NT: upnp:rootdevice\r\n" +
	"NTS: ssdp:byebye\r\n" +
	"USN: uuid:2fac1234-31f8-11b4-a222-08002b34c003::upnp:rootdevice\r\n" +
	"\r\n"

func TestWriterReaderSequence(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	when := time.Date(2024, 3, 1, 12, 0, 0, 123, time.UTC)
	require.NoError(t, w.Write(Record{Time: when, Interface: "192.168.1.2", Source: "192.168.1.20:1900", Payload: []byte(byebyeDatagram)}))
	require.NoError(t, w.Write(Record{Time: when.Add(time.Second), Payload: []byte("junk")}))
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Error(t, w.Write(Record{}))

	r := NewReader(&buf)
	first, err := r.Next()
	require.NoError(t, err)
	assert.True(t, first.Time.Equal(when))
	assert.Equal(t, "192.168.1.20:1900", first.Source)
	assert.Equal(t, []byte(byebyeDatagram), first.Payload)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("junk"), second.Payload)
	assert.Empty(t, second.Source)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReplayCountsDropped(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(Record{Payload: []byte(byebyeDatagram)}))
	require.NoError(t, w.Write(Record{Payload: []byte("M-SEARCH * HTTP/1.1\r\n\r\n")}))
	require.NoError(t, w.Write(Record{Payload: []byte(byebyeDatagram)}))

	var got []notify.Message
	stats, err := Replay(NewReader(&buf), func(_ Record, msg notify.Message) {
		got = append(got, msg)
	})
	require.NoError(t, err)
	assert.Equal(t, Stats{Records: 3, Parsed: 2, Dropped: 1, Rejected: map[string]int{ssdp.HeaderHost: 1}}, stats)
	require.Len(t, got, 2)
	assert.Equal(t, notify.ByeBye, got[0].Type())
}

func TestReplayRoutesSearches(t *testing.T) {
	search := ssdp.NewSearchRequest(ssdp.ST{All: true}, 2)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(Record{Payload: search.Bytes()}))
	require.NoError(t, w.Write(Record{Payload: []byte(byebyeDatagram)}))
	require.NoError(t, w.Write(Record{Payload: []byte("junk")}))

	var handled int
	stats, err := Replay(NewReader(&buf), func(Record, notify.Message) { handled++ })
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 1, stats.Searches)
	assert.Equal(t, 1, stats.Parsed)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, map[string]int{"": 1}, stats.Rejected)
	assert.Equal(t, 1, handled)
}

func TestStatsAdd(t *testing.T) {
	var total Stats
	total.Add(Stats{Records: 2, Parsed: 1, Dropped: 1, Rejected: map[string]int{"NT": 1}})
	total.Add(Stats{Records: 3, Searches: 1, Dropped: 2, Rejected: map[string]int{"NT": 1, "": 1}})

	assert.Equal(t, Stats{
		Records:  5,
		Parsed:   1,
		Searches: 1,
		Dropped:  3,
		Rejected: map[string]int{"NT": 2, "": 1},
	}, total)
}

func TestReplayStopsOnCorruptInput(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(Record{Payload: []byte(byebyeDatagram)}))
	buf.Write([]byte{0xff, 0xff})

	stats, err := Replay(NewReader(&buf), func(Record, notify.Message) {})
	assert.Error(t, err)
	assert.Equal(t, 1, stats.Parsed)
}

func TestCreateAndOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures")

	w, path, err := Create(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	w.Datagram(discovery.Datagram{
		Received:  time.Now(),
		Interface: net.IPv4(10, 0, 0, 2),
		Source:    &net.UDPAddr{IP: net.IPv4(10, 0, 0, 9), Port: 1900},
		Payload:   []byte(byebyeDatagram),
	})
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", rec.Interface)
	assert.Equal(t, "10.0.0.9:1900", rec.Source)
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2024, 3, 1, 9, 5, 7, 0, time.UTC))
	if got != "capture-20240301-090507.cbor" {
		t.Errorf("FileName() = %q, want capture-20240301-090507.cbor", got)
	}
}
