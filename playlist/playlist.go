// Package playlist resolves HLS playlist URLs down to ordered segment URL sequences.
//
// A playlist is either a master playlist referencing alternative bitrate
// variants, or a media playlist listing the ordered segments of one stream.
// Resolution follows the highest-bandwidth variant chain until a media
// playlist is reached, bounded by a maximum nesting depth.
package playlist

import (
	"bytes"
	"fmt"

	"github.com/grafov/m3u8"
)

// Kind discriminates the two playlist node flavors.
type Kind int

const (
	// Master marks a playlist whose entries are alternative bitrate variants.
	Master Kind = iota

	// Media marks a playlist whose entries are the ordered segments of one stream.
	Media
)

// Variant is one bitrate option referenced from a master playlist.
type Variant struct {
	URI       string
	Bandwidth uint32
}

// Segment is one time-sliced media chunk referenced from a media playlist.
type Segment struct {
	URI string
}

// Node is a parsed playlist document. Exactly one of Variants or Segments is
// populated, according to Kind.
type Node struct {
	Kind     Kind
	Variants []Variant
	Segments []Segment
}

// Parser decodes raw playlist bytes into a Node. The narrow interface keeps
// the decoder swappable and testable against literal playlist fixtures.
type Parser interface {
	Parse(data []byte) (*Node, error)
}

// M3U8Parser decodes playlists with the grafov/m3u8 decoder.
type M3U8Parser struct{}

// Parse decodes an m3u8 document into a Node in document order.
func (M3U8Parser) Parse(data []byte) (*Node, error) {
	decoded, listType, err := m3u8.Decode(*bytes.NewBuffer(data), true)
	if err != nil {
		return nil, err
	}

	switch listType {
	case m3u8.MASTER:
		master, ok := decoded.(*m3u8.MasterPlaylist)
		if !ok {
			return nil, fmt.Errorf("unexpected master playlist type %T", decoded)
		}

		node := &Node{Kind: Master}
		for _, v := range master.Variants {
			if v == nil {
				continue
			}
			node.Variants = append(node.Variants, Variant{URI: v.URI, Bandwidth: v.Bandwidth})
		}
		return node, nil

	case m3u8.MEDIA:
		media, ok := decoded.(*m3u8.MediaPlaylist)
		if !ok {
			return nil, fmt.Errorf("unexpected media playlist type %T", decoded)
		}

		node := &Node{Kind: Media}
		// The decoder backs Segments with a fixed-capacity slice; the first
		// nil marks the end of the populated entries.
		for _, seg := range media.Segments {
			if seg == nil {
				break
			}
			node.Segments = append(node.Segments, Segment{URI: seg.URI})
		}
		return node, nil

	default:
		return nil, fmt.Errorf("unrecognized playlist type")
	}
}
