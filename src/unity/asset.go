package unity

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeAsset decodes the first document of a Unity serialized asset.
// Unity writes YAML 1.1 with a custom "!u!" tag handle and class-id tags on
// the document marker; those are dropped before decoding.
func decodeAsset(data []byte, out any) error {
	var buf bytes.Buffer
	docs := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "%") {
			continue
		}
		if strings.HasPrefix(line, "---") {
			docs++
			if docs > 1 {
				break
			}
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return yaml.Unmarshal(buf.Bytes(), out)
}

func readAsset(projectDir, rel string, out any) error {
	path := filepath.Join(projectDir, filepath.FromSlash(rel))
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := decodeAsset(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", rel, err)
	}
	return nil
}
