// Package chapterfile serializes synthesized chapter lists into Matroska
// chapter XML documents next to the media file.
package chapterfile

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chapterforge/chapterforge-server/internal/chapters"
)

// Suffix replaces the media file's extension to form the chapter
// document's name (e.g. "episode.mkv" -> "episode_chapters.xml").
const Suffix = "_chapters.xml"

// document is the root <Chapters> element.
type document struct {
	XMLName xml.Name     `xml:"Chapters"`
	Edition editionEntry `xml:"EditionEntry"`
}

// editionEntry is the top-level grouping construct holding the full
// ordered chapter-atom set for one media item.
type editionEntry struct {
	UID         int64         `xml:"EditionUID"`
	FlagDefault int           `xml:"EditionFlagDefault"`
	FlagHidden  int           `xml:"EditionFlagHidden"`
	Atoms       []chapterAtom `xml:"ChapterAtom"`
}

type chapterAtom struct {
	UID         int64          `xml:"ChapterUID"`
	FlagHidden  int            `xml:"ChapterFlagHidden"`
	FlagEnabled int            `xml:"ChapterFlagEnabled"`
	TimeStart   string         `xml:"ChapterTimeStart"`
	TimeEnd     string         `xml:"ChapterTimeEnd"`
	Display     chapterDisplay `xml:"ChapterDisplay"`
}

type chapterDisplay struct {
	String   string `xml:"ChapterString"`
	Language string `xml:"ChapterLanguage"`
}

// TargetPath returns the chapter document path for a media file: the media
// extension is replaced with Suffix in the same directory.
func TargetPath(mediaPath string) string {
	ext := filepath.Ext(mediaPath)
	return strings.TrimSuffix(mediaPath, ext) + Suffix
}

// newDocument builds the XML document for a chapter list, assigning fresh
// random UIDs to the edition and every atom.
func newDocument(chs []chapters.Chapter) (*document, error) {
	editionUID, err := newUID()
	if err != nil {
		return nil, err
	}

	doc := &document{
		Edition: editionEntry{
			UID:         editionUID,
			FlagDefault: 1,
			FlagHidden:  0,
			Atoms:       make([]chapterAtom, 0, len(chs)),
		},
	}

	for _, ch := range chs {
		uid, err := newUID()
		if err != nil {
			return nil, err
		}
		doc.Edition.Atoms = append(doc.Edition.Atoms, chapterAtom{
			UID:         uid,
			FlagHidden:  0,
			FlagEnabled: 1,
			TimeStart:   ch.StartTime,
			TimeEnd:     ch.EndTime,
			Display: chapterDisplay{
				String:   ch.Title,
				Language: "und",
			},
		})
	}

	return doc, nil
}

// newUID generates a 63-bit non-negative identifier from a
// cryptographically strong random source. Uniqueness is only required
// within a single document; collisions across runs are acceptable.
func newUID() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read random uid: %w", err)
	}
	return int64(binary.BigEndian.Uint64(buf[:]) & (1<<63 - 1)), nil
}
