// Package app assembles the scorekeeping service: stores, idempotency
// cache, submission queue, worker pool, and calculator, behind one
// facade the HTTP layer talks to.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tyresmoke/burnboard/internal/adapters/mq/queue"
	"github.com/tyresmoke/burnboard/internal/adapters/mq/worker"
	"github.com/tyresmoke/burnboard/internal/adapters/repository"
	"github.com/tyresmoke/burnboard/internal/domain/dedupe"
	"github.com/tyresmoke/burnboard/internal/domain/leaderboard"
	"github.com/tyresmoke/burnboard/internal/domain/model"
	"github.com/tyresmoke/burnboard/internal/domain/review"
	"github.com/tyresmoke/burnboard/internal/domain/scoring"
	"github.com/tyresmoke/burnboard/pkg/logger"
	"github.com/tyresmoke/burnboard/pkg/metrics"
)

// SubmitStatus reports what happened to a submission at intake.
type SubmitStatus int

const (
	// SubmitAccepted means the submission was queued for scoring.
	SubmitAccepted SubmitStatus = iota
	// SubmitDuplicate means the submission id was seen before.
	SubmitDuplicate
)

// Stats is the operational snapshot served by GET /stats.
type Stats struct {
	ScoreCount    int   `json:"score_count"`
	QueueDepth    int   `json:"queue_depth"`
	QueueCapacity int   `json:"queue_capacity"`
	DedupeSize    int64 `json:"dedupe_size"`
	WorkerCount   int   `json:"worker_count"`
}

// Service is the application facade. Construct with New and the
// functional options; zero value is not usable.
type Service struct {
	scores   repository.ScoreStore
	roster   repository.RosterStore
	rounds   repository.RoundStore
	settings repository.SettingsStore

	deduper dedupe.Deduper
	queue   queue.Queue
	pool    *worker.Pool
	calc    *scoring.Calculator
	log     logger.Logger

	queueSize   int
	workerCount int
	dedupeSize  int
}

// New builds a fully wired service. Every collaborator has a default;
// options replace them for tests or alternate deployments.
func New(opts ...Option) *Service {
	s := &Service{
		log:         logger.Get().Named("app"),
		queueSize:   10000,
		workerCount: 4,
		dedupeSize:  50000,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.scores == nil {
		s.scores = repository.NewMemScoreStore()
	}
	if s.roster == nil {
		s.roster = repository.NewMemRosterStore()
	}
	if s.rounds == nil {
		s.rounds = repository.NewMemRoundStore()
	}
	if s.settings == nil {
		s.settings = repository.NewMemSettingsStore()
	}
	if s.calc == nil {
		s.calc = scoring.NewCalculator()
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	}
	if s.queue == nil {
		s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	}
	s.pool = worker.NewPool(s.queue, s.calc, s.scores,
		worker.WithWorkerCount(s.workerCount),
		worker.WithReleaser(s.deduper),
		worker.WithLogger(s.log))
	return s
}

// Start launches the scoring workers.
func (s *Service) Start(ctx context.Context) {
	s.pool.Start(ctx)
	s.log.Info(ctx, "service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize))
}

// Stop closes intake and drains the workers.
func (s *Service) Stop(ctx context.Context) {
	if err := s.queue.Close(); err != nil {
		s.log.Warn(ctx, "queue close", logger.Error(err))
	}
	s.pool.Stop()
	s.log.Info(ctx, "service stopped")
}

// SubmitScore validates referential integrity, deduplicates, and
// enqueues. The breakdown is computed asynchronously by a worker.
func (s *Service) SubmitScore(ctx context.Context, sub model.Submission) (SubmitStatus, error) {
	if sub.SubmissionID == "" {
		sub.SubmissionID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}

	if _, err := s.roster.GetCompetitor(ctx, sub.CompetitorID); err != nil {
		return 0, fmt.Errorf("competitor %s: %w", sub.CompetitorID, ErrUnknownCompetitor)
	}
	if _, err := s.rounds.Get(ctx, sub.RoundID); err != nil {
		return 0, fmt.Errorf("round %s: %w", sub.RoundID, ErrUnknownRound)
	}

	metrics.RecordScoreSubmitted()
	if s.deduper.SeenAndRecord(ctx, sub.SubmissionID) {
		metrics.RecordScoreDuplicate()
		return SubmitDuplicate, nil
	}

	if !s.queue.Enqueue(ctx, sub) {
		s.deduper.Unrecord(ctx, sub.SubmissionID)
		return 0, fmt.Errorf("submission %s: %w", sub.SubmissionID, ErrQueueFull)
	}
	return SubmitAccepted, nil
}

// PreviewScore computes a breakdown without persisting anything.
func (s *Service) PreviewScore(_ context.Context, card model.ScoreCard) scoring.Breakdown {
	return s.calc.Compute(worker.InputFromCard(card))
}

// GetScore returns one stored score record.
func (s *Service) GetScore(ctx context.Context, id string) (model.ScoreRecord, error) {
	return s.scores.Get(ctx, id)
}

// ListScores returns every stored record, oldest first.
func (s *Service) ListScores(ctx context.Context) ([]model.ScoreRecord, error) {
	return s.scores.List(ctx)
}

// ListScoresByJudge returns one judge's records, oldest first.
func (s *Service) ListScoresByJudge(ctx context.Context, judgeID string) ([]model.ScoreRecord, error) {
	return s.scores.ListByJudge(ctx, judgeID)
}

// EditScore overlays a patch onto the record's raw card, recomputes the
// breakdown from the full resulting card, and stamps edited_at. The
// result email flag resets so the corrected score goes out again.
func (s *Service) EditScore(ctx context.Context, id string, patch model.ScorePatch) (model.ScoreRecord, error) {
	rec, err := s.scores.Get(ctx, id)
	if err != nil {
		return model.ScoreRecord{}, err
	}

	rec.Card = patch.Apply(rec.Card)
	breakdown := s.calc.Compute(worker.InputFromCard(rec.Card))
	rec.ScoreSubtotal = breakdown.Subtotal
	rec.PenaltyTotal = breakdown.PenaltyTotal
	rec.FinalScore = breakdown.FinalScore

	now := time.Now().UTC()
	rec.EditedAt = &now
	rec.EmailSent = false

	if err := s.scores.Update(ctx, rec); err != nil {
		return model.ScoreRecord{}, err
	}
	return rec, nil
}

// DeleteScore removes a record and frees its submission id for reuse.
func (s *Service) DeleteScore(ctx context.Context, id string) error {
	if err := s.scores.Delete(ctx, id); err != nil {
		return err
	}
	s.deduper.Unrecord(ctx, id)
	return nil
}

// Leaderboard ranks one round's records, joined with display metadata.
func (s *Service) Leaderboard(ctx context.Context, roundID, classID string, metric leaderboard.Metric) ([]model.LeaderboardRow, error) {
	if _, err := s.rounds.Get(ctx, roundID); err != nil {
		return nil, fmt.Errorf("round %s: %w", roundID, ErrUnknownRound)
	}
	records, err := s.scores.ListByRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return s.rank(ctx, records, classID, metric)
}

// CumulativeLeaderboard ranks every minor round's records together: the
// pre-finals standing.
func (s *Service) CumulativeLeaderboard(ctx context.Context, classID string, metric leaderboard.Metric) ([]model.LeaderboardRow, error) {
	minors, err := s.rounds.ListMinor(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(minors))
	for _, r := range minors {
		ids = append(ids, r.ID)
	}
	records, err := s.scores.ListByRounds(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.rank(ctx, records, classID, metric)
}

func (s *Service) rank(ctx context.Context, records []model.ScoreRecord, classID string, metric leaderboard.Metric) ([]model.LeaderboardRow, error) {
	start := time.Now()
	defer func() {
		metrics.RecordLeaderboardQuery(float64(time.Since(start).Microseconds()) / 1000)
	}()

	competitors, err := s.roster.ListCompetitors(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := s.roster.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Competitor, len(competitors))
	for _, c := range competitors {
		byID[c.ID] = c
	}
	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	input := make([]leaderboard.Record, 0, len(records))
	for _, r := range records {
		c, ok := byID[r.CompetitorID]
		if !ok {
			// record outlived its competitor; it has no place in standings
			continue
		}
		input = append(input, leaderboard.Record{
			CompetitorID: r.CompetitorID,
			RoundID:      r.RoundID,
			ClassID:      c.ClassID,
			FinalScore:   r.FinalScore,
		})
	}

	opts := []leaderboard.Option{leaderboard.WithMetric(metric)}
	if classID != "" {
		opts = append(opts, leaderboard.WithClassFilter(classID))
	}
	entries := leaderboard.Rank(input, opts...)

	rows := make([]model.LeaderboardRow, 0, len(entries))
	for _, e := range entries {
		c := byID[e.CompetitorID]
		rows = append(rows, model.LeaderboardRow{
			CompetitorID:   e.CompetitorID,
			CompetitorName: c.Name,
			CarNumber:      c.CarNumber,
			VehicleInfo:    c.VehicleInfo,
			ClassID:        c.ClassID,
			ClassName:      classNames[c.ClassID],
			AverageScore:   e.AverageScore,
			TotalScore:     e.TotalScore,
			ScoreCount:     e.ScoreCount,
			RoundsCompeted: e.RoundsCompeted,
		})
	}
	return rows, nil
}

// ScoringErrors runs the review checks over every stored record using
// the current deviation threshold.
func (s *Service) ScoringErrors(ctx context.Context) ([]review.Finding, error) {
	records, err := s.scores.List(ctx)
	if err != nil {
		return nil, err
	}
	findings := review.Detect(records, s.settings.DeviationThreshold(ctx))
	metrics.UpdateDeviationFindings(len(findings))
	return findings, nil
}

// AcknowledgeDeviation flips the review flag on a record.
func (s *Service) AcknowledgeDeviation(ctx context.Context, id string, acknowledged bool) error {
	return s.scores.SetDeviationAck(ctx, id, acknowledged)
}

// DeviationThreshold returns the current panel-deviation tolerance.
func (s *Service) DeviationThreshold(ctx context.Context) float64 {
	return s.settings.DeviationThreshold(ctx)
}

// SetDeviationThreshold updates the panel-deviation tolerance.
func (s *Service) SetDeviationThreshold(ctx context.Context, threshold float64) error {
	return s.settings.SetDeviationThreshold(ctx, threshold)
}

// PendingEmails lists records whose result email has not gone out.
func (s *Service) PendingEmails(ctx context.Context) ([]model.ScoreRecord, error) {
	records, err := s.scores.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]model.ScoreRecord, 0)
	for _, r := range records {
		if !r.EmailSent {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// MarkEmailSent records that a result email went out.
func (s *Service) MarkEmailSent(ctx context.Context, id string) error {
	return s.scores.SetEmailSent(ctx, id, true)
}

// Roster passthroughs.

func (s *Service) CreateClass(ctx context.Context, c model.CompetitionClass) (model.CompetitionClass, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	if err := s.roster.CreateClass(ctx, c); err != nil {
		return model.CompetitionClass{}, err
	}
	return c, nil
}

func (s *Service) UpdateClass(ctx context.Context, c model.CompetitionClass) error {
	return s.roster.UpdateClass(ctx, c)
}

func (s *Service) DeleteClass(ctx context.Context, id string) error {
	return s.roster.DeleteClass(ctx, id)
}

func (s *Service) ListClasses(ctx context.Context) ([]model.CompetitionClass, error) {
	return s.roster.ListClasses(ctx)
}

func (s *Service) CreateCompetitor(ctx context.Context, c model.Competitor) (model.Competitor, error) {
	if c.ClassID != "" {
		if _, err := s.roster.GetClass(ctx, c.ClassID); err != nil {
			return model.Competitor{}, fmt.Errorf("class %s: %w", c.ClassID, ErrUnknownClass)
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	if err := s.roster.CreateCompetitor(ctx, c); err != nil {
		return model.Competitor{}, err
	}
	return c, nil
}

func (s *Service) UpdateCompetitor(ctx context.Context, c model.Competitor) error {
	if c.ClassID != "" {
		if _, err := s.roster.GetClass(ctx, c.ClassID); err != nil {
			return fmt.Errorf("class %s: %w", c.ClassID, ErrUnknownClass)
		}
	}
	return s.roster.UpdateCompetitor(ctx, c)
}

func (s *Service) DeleteCompetitor(ctx context.Context, id string) error {
	return s.roster.DeleteCompetitor(ctx, id)
}

// ListCompetitors joins each competitor with its class name for display.
func (s *Service) ListCompetitors(ctx context.Context) ([]model.CompetitorWithClass, error) {
	competitors, err := s.roster.ListCompetitors(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := s.roster.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(classes))
	for _, c := range classes {
		names[c.ID] = c.Name
	}
	out := make([]model.CompetitorWithClass, 0, len(competitors))
	for _, c := range competitors {
		out = append(out, model.CompetitorWithClass{Competitor: c, ClassName: names[c.ClassID]})
	}
	return out, nil
}

// Round passthroughs.

func (s *Service) CreateRound(ctx context.Context, r model.Round) (model.Round, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = model.RoundActive
	}
	r.CreatedAt = time.Now().UTC()
	if err := s.rounds.Create(ctx, r); err != nil {
		return model.Round{}, err
	}
	return r, nil
}

func (s *Service) UpdateRound(ctx context.Context, r model.Round) error {
	return s.rounds.Update(ctx, r)
}

func (s *Service) DeleteRound(ctx context.Context, id string) error {
	return s.rounds.Delete(ctx, id)
}

func (s *Service) ListRounds(ctx context.Context) ([]model.Round, error) {
	return s.rounds.List(ctx)
}

// GetStats snapshots operational counters for GET /stats.
func (s *Service) GetStats(ctx context.Context) Stats {
	return Stats{
		ScoreCount:    s.scores.Count(ctx),
		QueueDepth:    s.queue.Len(ctx),
		QueueCapacity: s.queueSize,
		DedupeSize:    s.deduper.Size(),
		WorkerCount:   s.workerCount,
	}
}
