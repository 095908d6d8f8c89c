package scan

import (
	"bytes"
	"strings"
	"testing"

	"verisight/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	wavHeader = []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00")
	mp3Header = []byte("ID3\x03\x00\x00\x00\x00\x00\x00")
	flvHeader = []byte("FLV\x01\x05\x00\x00\x00\x09\x00\x00\x00\x00")
)

func TestSniffAcceptsMedia(t *testing.T) {
	cases := []struct {
		name string
		body []byte
		kind types.MediaType
	}{
		{"photo.png", pngHeader, types.MediaImage},
		{"anim.gif", gifHeader, types.MediaImage},
		{"voice.wav", wavHeader, types.MediaAudio},
		{"song.mp3", mp3Header, types.MediaAudio},
		{"clip.flv", flvHeader, types.MediaVideo},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, err := Sniff("/tmp/uploads/"+c.name, 2*1024*1024, bytes.NewReader(c.body))
			require.NoError(t, err)
			assert.Equal(t, c.kind, u.Kind)
			assert.Equal(t, c.name, u.Name)
			assert.True(t, strings.HasPrefix(u.MIME, string(c.kind)+"/"), u.MIME)
			assert.InDelta(t, 2.0, u.SizeMB(), 1e-9)
		})
	}
}

func TestSniffRejectsOtherContent(t *testing.T) {
	_, err := Sniff("notes.txt", 12, strings.NewReader("hello, world"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, err = Sniff("doc.pdf", 9, strings.NewReader("%PDF-1.7\n"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, err = Sniff("empty.png", 0, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestSniffReadsOnlyPrefix(t *testing.T) {
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 10_000)...)
	r := bytes.NewReader(body)

	_, err := Sniff("big.png", int64(len(body)), r)
	require.NoError(t, err)
	assert.Equal(t, len(body)-3072, r.Len())
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf("video/mp4")
	assert.True(t, ok)
	assert.Equal(t, types.MediaVideo, kind)

	kind, ok = KindOf(" Audio/MPEG ")
	assert.True(t, ok)
	assert.Equal(t, types.MediaAudio, kind)

	_, ok = KindOf("application/pdf")
	assert.False(t, ok)
	_, ok = KindOf("")
	assert.False(t, ok)
}
