package ports

import "github.com/project-avie/avie/internal/domain"

// RunStore persists run artifacts for reproducibility and answers queries
// over past runs.
type RunStore interface {
	SaveRun(run domain.RunArtifact) (id string, err error)
	SaveStudy(run domain.StudyArtifact) (id string, err error)

	LoadRun(id string) (domain.RunArtifact, error)
	LoadStudy(id string) (domain.StudyArtifact, error)

	// List returns index rows newest first.
	List(f domain.RunFilter) ([]domain.RunRow, error)

	// Series flattens the newest run of the named study to one metric
	// per grid point.
	Series(study, metric string) ([]domain.SeriesPoint, error)

	// Delete removes the artifact file and its index rows.
	Delete(id string) error

	// Reindex rebuilds the index from the artifact files on disk and
	// returns the number of runs indexed.
	Reindex() (int, error)
}
