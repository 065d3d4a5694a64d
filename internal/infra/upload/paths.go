package upload

import (
	"fmt"
	"io/fs"
	"os"

	"picgo-mcp/internal/domain"
)

// PathChecker rejects requests that reference paths missing from the filesystem.
type PathChecker struct {
	stat func(string) (fs.FileInfo, error)
}

func NewPathChecker() *PathChecker {
	return &PathChecker{stat: os.Stat}
}

// Check stats each path in order and fails on the first one that cannot be found.
func (c *PathChecker) Check(req domain.UploadRequest) error {
	for _, path := range req.Paths {
		if _, err := c.stat(path); err != nil {
			return domain.E(
				domain.CodeInvalidParams,
				"upload.check_paths",
				fmt.Sprintf("Image path does not exist: %s", path),
				fmt.Errorf("%w: %w", domain.ErrPathNotFound, err),
			)
		}
	}
	return nil
}
