package shareext

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kaya-app/pbxshare/pbxproj"
)

// Result describes what Scaffold did.
type Result struct {
	// AlreadyExists is set when the project already had the target; nothing
	// was changed or saved.
	AlreadyExists bool
	TargetUUID    string
	// EmbedPhaseIndex is the position of the embed phase in the host target.
	EmbedPhaseIndex int
}

// Scaffold adds the extension target to project and saves it. A project that
// already has a target with the extension's name is left untouched. Errors
// are returned before anything is written.
func Scaffold(ctx context.Context, project *pbxproj.PbxProject, settings Settings) (Result, error) {
	if existing, found := project.TargetByName(settings.Name); found {
		slog.Debug("target exists", "target", settings.Name, "uuid", existing.UUID)
		return Result{AlreadyExists: true, TargetUUID: existing.UUID}, nil
	}
	host, found := project.TargetByName(settings.HostName)
	if !found {
		return Result{}, fmt.Errorf("%w: %s", pbxproj.ErrTargetNotFound, settings.HostName)
	}

	target, err := project.NewTarget(settings.Name, "app_extension", "ios", settings.DeploymentTarget)
	if err != nil {
		return Result{}, fmt.Errorf("creating target: %w", err)
	}

	mainGroup, err := project.MainGroup()
	if err != nil {
		return Result{}, err
	}
	group, err := project.NewGroup(mainGroup.UUID, settings.Name, settings.Name)
	if err != nil {
		return Result{}, fmt.Errorf("creating group: %w", err)
	}
	var fileRefs []string
	for _, file := range []string{ViewControllerFile, StoryboardFile, InfoPlistFile, settings.EntitlementsFile()} {
		ref, err := project.NewFileReference(group.UUID, file)
		if err != nil {
			return Result{}, err
		}
		fileRefs = append(fileRefs, ref.UUID)
	}
	// only the controller and the storyboard are built; the plist and the
	// entitlements are referenced from build settings
	if err := project.AddFileReferencesToTarget(target.UUID, fileRefs[:2]...); err != nil {
		return Result{}, err
	}

	for _, setting := range settings.extensionBuildSettings() {
		if err := project.SetBuildSetting(target.UUID, setting.key, setting.value); err != nil {
			return Result{}, err
		}
	}
	if err := project.AddTargetAttribute("DevelopmentTeam", settings.Team, target); err != nil {
		return Result{}, err
	}
	for _, setting := range settings.hostBuildSettings() {
		if err := project.SetBuildSetting(host.UUID, setting.key, setting.value); err != nil {
			return Result{}, err
		}
	}

	if err := project.AddTargetDependency(host.UUID, []string{target.UUID}); err != nil {
		return Result{}, err
	}

	embedPhaseIndex, err := embedProduct(project, host.UUID, target.GetString("productReference"))
	if err != nil {
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := project.Save(); err != nil {
		return Result{}, err
	}
	return Result{TargetUUID: target.UUID, EmbedPhaseIndex: embedPhaseIndex}, nil
}

// embedProduct copies the extension product into the host's PlugIns folder,
// right before the Thin Binary phase when the host has one.
func embedProduct(project *pbxproj.PbxProject, hostKey, productRef string) (int, error) {
	phase, err := project.AddCopyFilesBuildPhase(hostKey, EmbedPhaseName, "app_extension", "")
	if err != nil {
		return -1, err
	}
	if err := project.AddFileToBuildPhase(phase.UUID, productRef); err != nil {
		return -1, err
	}

	thinBinary, err := project.BuildPhaseIndex(hostKey, ThinBinaryPhaseName)
	if err != nil {
		return -1, err
	}
	if thinBinary >= 0 {
		if err := project.MoveBuildPhase(hostKey, phase.UUID, thinBinary); err != nil {
			return -1, err
		}
	}
	return project.BuildPhaseIndex(hostKey, EmbedPhaseName)
}
