package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"io"
	"log/slog"
	"path"
	"shift-metrics/internal/blob"
	"shift-metrics/internal/constants"
	"shift-metrics/internal/storage"
	"time"
)

type Blobs interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Put(ctx context.Context, name string, r io.Reader) error
	Delete(ctx context.Context, name string) error
}

// Directory resolves a store location code to the manager that owns it. A miss
// is reported through ok, not an error.
type Directory interface {
	ManagerByLocation(ctx context.Context, location string) (storage.ManagerContext, bool, error)
}

type RosterSource interface {
	RosterForManager(ctx context.Context, managerID int64) ([]storage.RosterEmployee, error)
}

type ShiftTypeSource interface {
	ShiftTypesForManager(ctx context.Context, managerID int64) ([]storage.ShiftTypeDefinition, error)
}

type ReportWriter interface {
	SaveReport(ctx context.Context, report storage.IngestionReport) error
	SaveHourlySummary(ctx context.Context, summary storage.HourlySummary) error
}

// Store is everything the pipeline needs from the database.
type Store interface {
	Directory
	RosterSource
	ShiftTypeSource
	ReportWriter
}

type Options struct {
	Log      *slog.Logger
	Now      func() time.Time
	Location *time.Location
	// DefaultShiftTypes are used for hourly files when the manager has none configured.
	DefaultShiftTypes []storage.ShiftTypeDefinition
	// ArchivePrefix, when set, keeps an xz copy of every source before it is deleted.
	ArchivePrefix string
}

type Pipeline struct {
	blobs Blobs
	store Store
	opts  Options
}

func New(blobs Blobs, store Store, opts Options) *Pipeline {
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Pipeline{blobs: blobs, store: store, opts: opts}
}

// Result describes one run. FailedIn is the stage a failed or aborted run stopped in.
type Result struct {
	RunID         string                   `json:"run_id"`
	Blob          string                   `json:"blob"`
	State         State                    `json:"state"`
	FailedIn      string                   `json:"failed_in,omitempty"`
	AbortReason   string                   `json:"abort_reason,omitempty"`
	Format        Format                   `json:"format"`
	ReportDate    string                   `json:"report_date,omitempty"`
	Manager       storage.ManagerContext   `json:"manager"`
	Rows          int                      `json:"rows"`
	Skipped       map[string]int           `json:"skipped,omitempty"`
	Report        *storage.IngestionReport `json:"report,omitempty"`
	Hourly        *storage.HourlySummary   `json:"hourly,omitempty"`
	Archived      string                   `json:"archived,omitempty"`
	SourceDeleted bool                     `json:"source_deleted"`
}

// run carries the values one stage hands to the next.
type run struct {
	Result
	log     *slog.Logger
	data    []byte
	rows    []Row
	roster  RosterIndex
	defs    []storage.ShiftTypeDefinition
	started time.Time
}

// Run takes one blob through the whole pipeline. Fetch, parse, lookup, persist and
// delete errors fail the run and are returned. An unknown store location aborts
// the run with a nil error and leaves the blob where it is.
func (p *Pipeline) Run(ctx context.Context, name string) (Result, error) {
	const op = "ingest.Pipeline.Run"

	r := &run{
		Result:  Result{RunID: uuid.NewString(), Blob: name, State: StateFetching},
		started: p.opts.Now().In(p.opts.Location),
	}
	r.log = p.opts.Log.With(
		slog.String("op", op),
		slog.String("run_id", r.RunID),
		slog.String("blob", name),
	)

	stages := []struct {
		state State
		do    func(context.Context, *run) error
	}{
		{StateFetching, p.fetch},
		{StateParsing, p.parse},
		{StateFormatDetecting, p.detect},
		{StateContextResolving, p.resolve},
		{StateRosterLoading, p.loadRoster},
		{StateRowProcessing, p.process},
		{StatePersisting, p.persist},
		{StateCleanup, p.cleanup},
	}

	for _, st := range stages {
		r.State = st.state
		r.log.Debug("stage", slog.String("state", st.state.String()))

		err := st.do(ctx, r)
		var abort abortError
		switch {
		case err == nil:
			continue
		case errors.As(err, &abort):
			r.FailedIn = st.state.String()
			r.State = StateAborted
			r.AbortReason = abort.reason
			r.log.Warn("import aborted, source left in place",
				slog.String("state", st.state.String()),
				slog.String("reason", abort.reason),
			)
			return r.Result, nil
		default:
			r.FailedIn = st.state.String()
			r.State = StateFailed
			if st.state == StateFetching && errors.Is(err, blob.ErrNotExist) {
				r.log.Warn("source object gone", slog.String("error", err.Error()))
			} else {
				r.log.Error("import failed",
					slog.String("state", st.state.String()),
					slog.String("error", err.Error()),
				)
			}
			return r.Result, fmt.Errorf("%s: %s: %s: %w", op, name, st.state, err)
		}
	}

	r.State = StateDone
	r.log.Info("import done",
		slog.String("format", r.Format.String()),
		slog.Int64("manager_id", r.Manager.ManagerID),
		slog.String("report_date", r.ReportDate),
		slog.Int("rows", r.Rows),
		slog.Bool("source_deleted", r.SourceDeleted),
	)
	return r.Result, nil
}

type abortError struct {
	reason string
}

func (e abortError) Error() string {
	return "aborted: " + e.reason
}

func (p *Pipeline) fetch(ctx context.Context, r *run) error {
	rc, err := p.blobs.Open(ctx, r.Blob)
	if err != nil {
		return err
	}
	defer rc.Close()

	r.data, err = io.ReadAll(rc)
	return err
}

func (p *Pipeline) parse(_ context.Context, r *run) error {
	rows, err := ReadRows(bytes.NewReader(r.data), r.Blob)
	if err != nil {
		return err
	}
	r.rows = rows
	r.Rows = len(rows)
	r.ReportDate = ReportDate(path.Base(r.Blob), r.started)
	return nil
}

func (p *Pipeline) detect(_ context.Context, r *run) error {
	r.Format = DetectFormat(r.first())
	return nil
}

func (r *run) first() Row {
	if len(r.rows) == 0 {
		return Row{}
	}
	return r.rows[0]
}

func (p *Pipeline) resolve(ctx context.Context, r *run) error {
	loc := r.first().Get(constants.ColLoc)
	if loc == "" {
		return abortError{reason: "first row has no store location"}
	}

	mc, ok, err := p.store.ManagerByLocation(ctx, loc)
	if err != nil {
		return err
	}
	if !ok {
		return abortError{reason: fmt.Sprintf("no manager for location %q", loc)}
	}

	if mc.Location == "" {
		mc.Location = loc
	}
	r.Manager = mc
	r.log = r.log.With(slog.Int64("manager_id", mc.ManagerID))
	return nil
}

func (p *Pipeline) loadRoster(ctx context.Context, r *run) error {
	if r.Format == FormatHourly {
		defs, err := p.store.ShiftTypesForManager(ctx, r.Manager.ManagerID)
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			defs = p.opts.DefaultShiftTypes
		}
		r.defs = defs
		return nil
	}

	employees, err := p.store.RosterForManager(ctx, r.Manager.ManagerID)
	if err != nil {
		return err
	}
	r.roster = NewRosterIndex(employees)
	return nil
}

func (p *Pipeline) process(_ context.Context, r *run) error {
	importedAt := r.started
	fileName := path.Base(r.Blob)

	if r.Format == FormatHourly {
		out := FoldHourly(r.rows, r.defs)
		r.Skipped = skipCounts(out.Skipped)
		r.Hourly = &storage.HourlySummary{
			ManagerID:   r.Manager.ManagerID,
			ImportedAt:  importedAt,
			FileName:    fileName,
			Location:    r.Manager.Location,
			ReportDate:  r.ReportDate,
			RowsRead:    out.Rows,
			RowsSkipped: out.SkippedTotal(),
			Buckets:     out.Aggregation.Buckets(),
		}
		return nil
	}

	out := MatchManagers(r.rows, r.roster)
	for _, problem := range out.Problems {
		r.log.Debug("row skipped", slog.String("reason", problem))
	}
	r.Skipped = skipCounts(out.Skipped)

	errs := out.Problems
	if errs == nil {
		errs = []string{}
	}
	r.Report = &storage.IngestionReport{
		ManagerID:        r.Manager.ManagerID,
		ImportedAt:       importedAt,
		FileName:         fileName,
		Location:         r.Manager.Location,
		ReportDate:       r.ReportDate,
		TotalEntries:     out.Total,
		UnmatchedEntries: out.Unmatched,
		Entries:          out.Entries,
		Errors:           errs,
	}
	return nil
}

func skipCounts(in map[Skip]int) map[string]int {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k.String()] = v
	}
	return out
}

func (p *Pipeline) persist(ctx context.Context, r *run) error {
	if r.Hourly != nil {
		return p.store.SaveHourlySummary(ctx, *r.Hourly)
	}
	return p.store.SaveReport(ctx, *r.Report)
}

func (p *Pipeline) cleanup(ctx context.Context, r *run) error {
	if p.opts.ArchivePrefix != "" {
		packed, err := Compress(r.data)
		if err != nil {
			return err
		}
		archived := ArchiveName(p.opts.ArchivePrefix, r.Blob)
		if err := p.blobs.Put(ctx, archived, bytes.NewReader(packed)); err != nil {
			return err
		}
		r.Archived = archived
	}

	if err := p.blobs.Delete(ctx, r.Blob); err != nil {
		return err
	}
	r.SourceDeleted = true
	return nil
}
