package storage

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileSink 把快照写成 JSON 文件（默认 articles.json），覆盖写
type FileSink struct {
	Path string
}

func (f *FileSink) Name() string {
	return "file"
}

func (f *FileSink) Write(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("file sink: marshal snapshot: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("file sink: write %s: %w", f.Path, err)
	}
	return nil
}
