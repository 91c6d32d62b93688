package entities

// Stage names a step of the download pipeline.
type Stage string

const (
	StageResolving       Stage = "resolving"
	StageCloning         Stage = "cloning"
	StageReadingManifest Stage = "reading manifest"
	StageRelocating      Stage = "relocating"
	StagePostProcessing  Stage = "post-processing"
	StageDone            Stage = "done"
	StageFailed          Stage = "failed"
	StageConfiguring     Stage = "configuring"
)
