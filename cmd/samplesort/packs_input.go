package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"samplesort/internal/config"
	"samplesort/internal/pack"
	"samplesort/internal/services"
)

// loadPacks reads a JSON array of pack records from path, or from stdin when
// path is "-".
func loadPacks(path string, stdin io.Reader) ([]pack.Pack, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrValidation, "input", "load packs", "--packs is required", nil)
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		path, err = config.ExpandPath(path)
		if err == nil {
			data, err = os.ReadFile(path)
		}
	}
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "input", "read packs", path, err)
	}

	var packs []pack.Pack
	if err := json.Unmarshal(data, &packs); err != nil {
		return nil, services.Wrap(services.ErrValidation, "input", "decode packs", fmt.Sprintf("%s is not a JSON array of packs", path), err)
	}
	return packs, nil
}
