// Package dataset locates speaker audio in the standard evaluation
// corpora. It only walks directory layouts; decoding happens at the
// consumer.
//
// Expected layouts under the data root:
//
//	VoxCeleb1/wav/<speaker>/<session>/*.wav
//	VoxCeleb2/aac/<speaker>/<session>/*.m4a
//	LibriSpeech/LibriSpeech/<subset>/<speaker>/<chapter>/*.flac
package dataset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Name identifies a supported corpus.
type Name string

const (
	VoxCeleb1   Name = "VoxCeleb1"
	VoxCeleb2   Name = "VoxCeleb2"
	LibriSpeech Name = "LibriSpeech"
)

// ParseName maps a configuration string to a Name.
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case VoxCeleb1, VoxCeleb2, LibriSpeech:
		return Name(s), nil
	default:
		return "", fmt.Errorf("dataset: unknown dataset %q (want VoxCeleb1, VoxCeleb2 or LibriSpeech)", s)
	}
}

// layout describes where a corpus keeps its audio.
type layout struct {
	folder string // relative to the data root
	ext    string // audio extension, with dot
	nested bool   // speakers live one level down, under subsets
}

func (n Name) layout() layout {
	switch n {
	case VoxCeleb1:
		return layout{folder: filepath.Join("VoxCeleb1", "wav"), ext: ".wav"}
	case VoxCeleb2:
		return layout{folder: filepath.Join("VoxCeleb2", "aac"), ext: ".m4a"}
	case LibriSpeech:
		return layout{folder: filepath.Join("LibriSpeech", "LibriSpeech"), ext: ".flac", nested: true}
	default:
		return layout{}
	}
}

// Loader lists per-speaker audio files for one corpus.
type Loader struct {
	name Name
	base string
}

// New creates a loader for the corpus rooted at dataRoot.
func New(name Name, dataRoot string) (*Loader, error) {
	if _, err := ParseName(string(name)); err != nil {
		return nil, err
	}
	return &Loader{name: name, base: filepath.Join(dataRoot, name.layout().folder)}, nil
}

// Name returns the corpus name.
func (l *Loader) Name() Name { return l.name }

// Files maps each speaker id to its audio paths. Paths are sorted so
// downstream partitioning is deterministic. A missing corpus root
// yields an empty map, not an error.
func (l *Loader) Files() (map[string][]string, error) {
	lay := l.name.layout()

	if _, err := os.Stat(l.base); err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, err
	}

	speakerDirs, err := l.speakerDirs(lay)
	if err != nil {
		return nil, err
	}

	files := make(map[string][]string, len(speakerDirs))
	for id, dirs := range speakerDirs {
		for _, dir := range dirs {
			matched, err := collectAudio(dir, lay.ext)
			if err != nil {
				return nil, err
			}
			files[id] = append(files[id], matched...)
		}
		sort.Strings(files[id])
	}
	return files, nil
}

// Speakers returns the ids of speakers with at least min files, in
// sorted order.
func (l *Loader) Speakers(min int) ([]string, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(files))
	for id, fs := range files {
		if len(fs) >= min {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// speakerDirs finds each speaker's directories. LibriSpeech nests
// speakers under subsets, and one speaker can appear in several.
func (l *Loader) speakerDirs(lay layout) (map[string][]string, error) {
	out := make(map[string][]string)

	if !lay.nested {
		entries, err := os.ReadDir(l.base)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				out[e.Name()] = []string{filepath.Join(l.base, e.Name())}
			}
		}
		return out, nil
	}

	subsets, err := os.ReadDir(l.base)
	if err != nil {
		return nil, err
	}
	for _, subset := range subsets {
		if !subset.IsDir() {
			continue
		}
		speakers, err := os.ReadDir(filepath.Join(l.base, subset.Name()))
		if err != nil {
			return nil, err
		}
		for _, spk := range speakers {
			if spk.IsDir() {
				out[spk.Name()] = append(out[spk.Name()], filepath.Join(l.base, subset.Name(), spk.Name()))
			}
		}
	}
	return out, nil
}

// collectAudio walks dir recursively for files with the extension.
func collectAudio(dir, ext string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
