package action

import "slices"

// Kind identifies which executor an action is routed to.
type Kind string

const (
	KindProjectSetup Kind = "project-setup"
	KindFile         Kind = "file-operation"
	KindPackage      Kind = "package-operation"
	KindProcess      Kind = "process-operation"
	KindDatabase     Kind = "database-operation"
	KindGit          Kind = "git-operation"
	KindDeploy       Kind = "deploy-operation"
)

// Kinds lists every known action kind in the order they are documented.
var Kinds = []Kind{
	KindProjectSetup,
	KindFile,
	KindPackage,
	KindProcess,
	KindDatabase,
	KindGit,
	KindDeploy,
}

// IsValid reports whether k is a known action kind.
func (k Kind) IsValid() bool {
	return slices.Contains(Kinds, k)
}

// Step types used inside project-setup actions.
const (
	StepMkdir    = "mkdir"
	StepWrite    = "write"
	StepExec     = "exec"
	StepInstall  = "install"
	StepStart    = "start"
	StepGit      = "git"
	StepDatabase = "database"
)

// Step types used inside deploy-operation actions.
const (
	StepBuild  = "build"
	StepConfig = "config"
	StepUpload = "upload"
	StepInvoke = "invoke"
)

// verbs holds the allowed `action` values per kind. Project setup and
// deployment are step sequencers and take no verb.
var verbs = map[Kind][]string{
	KindFile:     {"read", "write", "append", "delete", "rename", "mkdir", "rmdir", "list", "watch", "unwatch"},
	KindPackage:  {"install", "uninstall", "update", "init", "run"},
	KindProcess:  {"start", "stop", "list"},
	KindDatabase: {"create-collection", "insert", "query", "drop-collection"},
	KindGit:      {"init", "clone", "add", "commit", "push", "checkout", "status", "pull"},
}

// StubbedDBTypes are database types accepted with any verb and answered with
// a not-implemented notice.
var StubbedDBTypes = []string{"mysql", "postgres", "sqlite"}

var stepTypes = map[Kind][]string{
	KindProjectSetup: {StepMkdir, StepWrite, StepExec, StepInstall, StepStart, StepGit, StepDatabase},
	KindDeploy:       {StepBuild, StepConfig, StepUpload, StepInvoke},
}

// Verbs returns the accepted `action` values for k.
func Verbs(k Kind) []string {
	return verbs[k]
}

// StepTypes returns the accepted step `type` values for a sequencer kind.
func StepTypes(k Kind) []string {
	return stepTypes[k]
}
