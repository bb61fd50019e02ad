// ABOUTME: Ogg packet reader
// ABOUTME: Splits Ogg page payloads into codec packets using the lacing table
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	oggPageHeaderLen = 27
	oggSegmentsIndex = 26
	oggLacingMax     = 255
)

var (
	oggMagic = []byte("OggS")

	// ErrInvalidOggPage is returned when a page does not start with the capture pattern
	ErrInvalidOggPage = errors.New("invalid ogg page")
)

// oggPackets reassembles packets from a sequence of Ogg pages. A packet
// may span several pages when its last lacing value on a page is 255.
type oggPackets struct {
	r       io.Reader
	pending [][]byte
	partial []byte
}

func newOggPackets(r io.Reader) *oggPackets {
	return &oggPackets{r: r}
}

// Next returns the next complete packet. It returns io.EOF once the
// stream ends on a page boundary; a packet cut off by the end of the
// stream is dropped.
func (p *oggPackets) Next() ([]byte, error) {
	for len(p.pending) == 0 {
		if err := p.readPage(); err != nil {
			return nil, err
		}
	}
	pkt := p.pending[0]
	p.pending = p.pending[1:]
	return pkt, nil
}

func (p *oggPackets) readPage() error {
	header := make([]byte, oggPageHeaderLen)
	if _, err := io.ReadFull(p.r, header); err != nil {
		return err
	}
	if !bytes.Equal(header[:4], oggMagic) {
		return ErrInvalidOggPage
	}

	lacing := make([]byte, header[oggSegmentsIndex])
	if _, err := io.ReadFull(p.r, lacing); err != nil {
		return fmt.Errorf("failed to read segment table: %w", err)
	}

	size := 0
	for _, l := range lacing {
		size += int(l)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(p.r, data); err != nil {
		return fmt.Errorf("failed to read page data: %w", err)
	}

	var packets [][]byte
	packets, p.partial = splitPackets(lacing, data, p.partial)
	p.pending = append(p.pending, packets...)
	return nil
}

// splitPackets cuts one page payload into packets. A packet ends at the
// first lacing value below 255. carry holds the unfinished packet from
// the previous page and the returned rest holds this page's unfinished
// tail.
func splitPackets(lacing, data, carry []byte) (packets [][]byte, rest []byte) {
	cur := carry
	offset := 0
	for _, l := range lacing {
		n := int(l)
		if offset+n > len(data) {
			n = len(data) - offset
		}
		cur = append(cur, data[offset:offset+n]...)
		offset += n
		if l < oggLacingMax {
			packets = append(packets, cur)
			cur = nil
		}
	}
	return packets, cur
}
