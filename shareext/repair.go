package shareext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kaya-app/pbxshare/pbxproj"
)

var ErrGroupNotFound = errors.New("group not found")

type PathFix struct {
	FileRef string
	From    string
	To      string
}

type RepairResult struct {
	Fixed []PathFix
}

// RepairPaths strips the "<group>/" prefix from the paths of the files
// directly inside the named top-level group. Those paths are already relative
// to the group. The project is saved even when no path needed fixing.
func RepairPaths(ctx context.Context, project *pbxproj.PbxProject, groupName string) (RepairResult, error) {
	group, found := project.MainGroupChildByName(groupName)
	if !found {
		return RepairResult{}, fmt.Errorf("%w: %s", ErrGroupNotFound, groupName)
	}
	files, err := project.GroupFiles(group.UUID)
	if err != nil {
		return RepairResult{}, err
	}

	prefix := groupName + "/"
	var result RepairResult
	for _, file := range files {
		filePath := pbxproj.FileReferencePath(file.Object)
		if filePath == "" || !strings.HasPrefix(filePath, prefix) {
			continue
		}
		fixed := strings.Replace(filePath, prefix, "", 1)
		if err := project.SetFilePath(file.UUID, fixed); err != nil {
			return RepairResult{}, err
		}
		slog.Debug("path fixed", "from", filePath, "to", fixed)
		result.Fixed = append(result.Fixed, PathFix{FileRef: file.UUID, From: filePath, To: fixed})
	}

	if err := ctx.Err(); err != nil {
		return RepairResult{}, err
	}
	if err := project.Save(); err != nil {
		return RepairResult{}, err
	}
	return result, nil
}
