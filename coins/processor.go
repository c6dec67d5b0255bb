package coins

import (
	"context"
	"image"
	"io"

	"github.com/LdDl/coin-counter/blobs"
	"github.com/LdDl/coin-counter/logger"
	"github.com/LdDl/coin-counter/mot"
	"github.com/LdDl/coin-counter/raster"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Detection is a coin recognized on a frame
type Detection struct {
	Denomination Denomination
	// Family component the decision was made on
	Component   blobs.Component
	Diameter    float32
	Circularity float32
	// Partial is set for 2€ coins recognized from a cut-off component
	Partial bool
	// Counted is true when the coin increased the tally on this frame
	Counted bool
	// Tracker slot the coin is matched to
	SlotID uuid.UUID
}

// FrameResult is outcome of processing a single frame
type FrameResult struct {
	Frame int
	// Number of general candidates passed the area and width gate
	Candidates int
	Detections []Detection
	// Corrections holds denominations taken back from the tally
	Corrections []Denomination
}

// Counted returns detections which increased the tally
func (fr FrameResult) Counted() []Detection {
	var out []Detection
	for _, d := range fr.Detections {
		if d.Counted {
			out = append(out, d)
		}
	}
	return out
}

// Masks are binary rasters extracted from a frame
type Masks struct {
	General *raster.Raster
	Copper  *raster.Raster
	Gold    *raster.Raster
	Bimetal *raster.Raster
}

// componentSets are measured components of every mask
type componentSets struct {
	general []blobs.Component
	copper  []blobs.Component
	gold    []blobs.Component
	bimetal []blobs.Component
}

// Processor detects, classifies and counts coins frame by frame.
// It is not safe for concurrent use.
type Processor struct {
	cfg        Config
	tracker    *mot.SlotTracker
	exclusions *mot.ExclusionZones
	tally      *Tally
	counted    coinLog
	frames     int
	logger     *zap.SugaredLogger
}

// Option customizes Processor
type Option func(*Processor)

// WithLogger sets logger. By default the global logger.Logger is used
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTracker replaces tracker built from Config.Tracker
func WithTracker(tracker *mot.SlotTracker) Option {
	return func(p *Processor) {
		if tracker != nil {
			p.tracker = tracker
		}
	}
}

// NewProcessor creates new instance of Processor
func NewProcessor(cfg Config, opts ...Option) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Can't create processor")
	}
	p := &Processor{
		cfg:        cfg,
		exclusions: mot.NewExclusionZones(cfg.ExclusionCapacity, cfg.ExclusionRadius),
		tally:      NewTally(),
		logger:     logger.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracker == nil {
		tracker, err := mot.NewSlotTracker(cfg.Tracker)
		if err != nil {
			return nil, errors.Wrap(err, "Can't create tracker")
		}
		p.tracker = tracker
	}
	return p, nil
}

// Tally returns running tally
func (p *Processor) Tally() *Tally {
	return p.tally
}

// Tracker returns slot tracker used for deduplication
func (p *Processor) Tracker() *mot.SlotTracker {
	return p.tracker
}

// Exclusions returns exclusion zones of counted coins
func (p *Processor) Exclusions() *mot.ExclusionZones {
	return p.exclusions
}

// Frames returns number of processed frames
func (p *Processor) Frames() int {
	return p.frames
}

// BuildMasks extracts general luminance mask and color masks of every family
func (p *Processor) BuildMasks(img image.Image) Masks {
	general := raster.Threshold(img, p.cfg.General.Threshold)
	general = raster.Open(general, kernelRadius(p.cfg.General.OpenKernel))
	general = raster.Close(general, kernelRadius(p.cfg.General.CloseKernel))
	return Masks{
		General: general,
		Copper:  raster.Open(raster.HSVMask(img, p.cfg.Copper.Gate), kernelRadius(p.cfg.Copper.OpenKernel)),
		Gold:    raster.Open(raster.HSVMask(img, p.cfg.Gold.Gate), kernelRadius(p.cfg.Gold.OpenKernel)),
		Bimetal: raster.Open(raster.HSVMask(img, p.cfg.Bimetal.Gate), kernelRadius(p.cfg.Bimetal.OpenKernel)),
	}
}

// measure labels mask and fills metrics of every component
func measure(mask *raster.Raster) ([]blobs.Component, error) {
	labels, components, err := blobs.LabelImage(mask)
	if err != nil {
		return nil, errors.Wrap(err, "Can't label mask")
	}
	if err := blobs.ComputeMetrics(labels, components); err != nil {
		return nil, errors.Wrap(err, "Can't compute metrics")
	}
	return components, nil
}

// ProcessFrame advances the frame clock and processes a single frame
func (p *Processor) ProcessFrame(img image.Image) (FrameResult, error) {
	if img == nil {
		return FrameResult{}, errors.Wrap(raster.ErrInvalidInput, "nil frame")
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return FrameResult{}, errors.Wrapf(raster.ErrInvalidInput, "empty frame %v", bounds)
	}
	masks := p.BuildMasks(img)
	var sets componentSets
	var err error
	if sets.general, err = measure(masks.General); err != nil {
		return FrameResult{}, errors.Wrap(err, "general mask")
	}
	// Family masks are useless without general candidates
	if len(sets.general) > 0 {
		if sets.copper, err = measure(masks.Copper); err != nil {
			return FrameResult{}, errors.Wrap(err, "copper mask")
		}
		if sets.gold, err = measure(masks.Gold); err != nil {
			return FrameResult{}, errors.Wrap(err, "gold mask")
		}
		if sets.bimetal, err = measure(masks.Bimetal); err != nil {
			return FrameResult{}, errors.Wrap(err, "bimetal mask")
		}
	}
	return p.processComponents(bounds.Dx(), bounds.Dy(), sets), nil
}

// processComponents runs detection on already measured components of a frame
func (p *Processor) processComponents(width, height int, sets componentSets) FrameResult {
	p.tracker.Clock().Tick()
	p.frames++
	result := FrameResult{
		Frame: p.tracker.Clock().Current(),
	}
	for _, candidate := range sets.general {
		if !p.acceptCandidate(candidate) {
			continue
		}
		result.Candidates++
		if p.exclusions.Contains(candidate.XC, candidate.YC) {
			continue
		}
		if p.detectBimetal(candidate, sets.bimetal, &result) {
			continue
		}
		if p.detectFamily(candidate, FamilyGold, p.cfg.Gold, sets.gold, width, height, &result) {
			continue
		}
		p.detectFamily(candidate, FamilyCopper, p.cfg.Copper, sets.copper, width, height, &result)
	}
	if p.cfg.SummaryEvery > 0 && p.frames%p.cfg.SummaryEvery == 0 {
		p.logger.Infow("Coins summary",
			logger.FieldFrame, p.frames,
			logger.FieldTally, p.tally.Snapshot(),
			logger.FieldTotal, p.tally.Total(),
			logger.FieldValue, formatCents(p.tally.Cents()),
		)
	}
	return result
}

// acceptCandidate applies the area and width gate. Rejected candidates inside release band free nearby exclusion zones
func (p *Processor) acceptCandidate(c blobs.Component) bool {
	general := p.cfg.General
	if c.Area >= general.MinArea && c.Area < general.MaxArea && c.Width <= general.MaxWidth {
		return true
	}
	release := p.cfg.Release
	if release.Enabled && c.YC >= release.MinY && c.YC <= release.MaxY {
		if n := p.exclusions.Remove(c.XC, c.YC); n > 0 {
			p.logger.Debugw("Exclusion zones released",
				logger.FieldPosition, []int{c.XC, c.YC},
				logger.FieldArea, c.Area,
			)
		}
	}
	return false
}

// near reports whether family component belongs to general candidate
func (p *Processor) near(candidate, c blobs.Component) bool {
	dx := c.XC - candidate.XC
	dy := c.YC - candidate.YC
	r := p.cfg.General.MatchRadius
	return dx*dx+dy*dy <= r*r
}

func (p *Processor) detectBimetal(candidate blobs.Component, components []blobs.Component, result *FrameResult) bool {
	var nearby []blobs.Component
	for _, c := range components {
		if p.near(candidate, c) {
			nearby = append(nearby, c)
		}
	}
	best, ok := selectBimetal(p.cfg.Bimetal, nearby)
	if !ok {
		return false
	}
	// Gold coins recognized earlier at this place were parts of a bimetal coin
	if evicted, ok := p.tracker.CorrectInferior(best.component.XC, best.component.YC); ok && evicted.Counted {
		p.tally.Remove(evicted.Type)
		p.counted.remove(evicted.ID)
		if d, err := DenominationOf(evicted.Type); err == nil {
			result.Corrections = append(result.Corrections, d)
			p.logger.Infow("Coin corrected",
				logger.FieldFrame, result.Frame,
				logger.FieldCoin, d.Code,
				logger.FieldSlot, evicted.ID.String(),
				logger.FieldPosition, []int{evicted.X, evicted.Y},
			)
		} else {
			p.logger.Warnw("Corrected slot has unknown type",
				logger.FieldCoinType, evicted.Type,
				logger.FieldError, err,
			)
		}
	}
	d := bimetalDenomination(p.cfg.Bimetal, best)
	p.register(d, best.component, best.diameter, best.circularity, best.partial, 0, result)
	return true
}

func (p *Processor) detectFamily(candidate blobs.Component, family Family, cfg FamilyConfig, components []blobs.Component, width, height int, result *FrameResult) bool {
	candidates := familyDenominations(family)
	for _, c := range components {
		if c.Area < cfg.MinArea || !p.near(candidate, c) {
			continue
		}
		diameter := c.Diameter()
		circularity := c.Circularity()
		if circularity < cfg.MinCircularity {
			continue
		}
		shift := int(diameter * cfg.ExclusionShift)
		if nearEdge(c.XC, c.YC, width, height, cfg.EdgeMargin) {
			// Cut-off coins keep the type they had when fully visible
			d, err := DenominationOf(p.tracker.TypeAt(c.XC, c.YC))
			if err != nil || d.Family != family {
				d = nearestDiameter(candidates, diameter)
			}
			p.register(d, c, diameter, circularity, false, shift, result)
			return true
		}
		tolerance := AdaptTolerance(p.cfg.Tolerance, c.XC, c.YC, width, height)
		if d, ok := matchDiameter(candidates, diameter, tolerance); ok {
			p.register(d, c, diameter, circularity, false, shift, result)
			return true
		}
	}
	return false
}

// register passes coin to the tracker, counts it when the tracker has not counted it yet
// and excludes its position from further detection
func (p *Processor) register(d Denomination, c blobs.Component, diameter, circularity float32, partial bool, shift int, result *FrameResult) {
	slot, alreadyCounted := p.tracker.ObserveSlot(c.XC, c.YC, d.Type, true)
	counted := !alreadyCounted
	if counted {
		p.tally.Add(d.Type)
		p.counted.add(slot, d, result.Frame, diameter)
		p.logger.Infow("Coin counted",
			logger.FieldFrame, result.Frame,
			logger.FieldCoin, d.Code,
			logger.FieldCoinType, d.Type,
			logger.FieldFamily, d.Family.String(),
			logger.FieldSlot, slot.ID.String(),
			logger.FieldDiameter, diameter,
			logger.FieldArea, c.Area,
			logger.FieldCircularity, circularity,
			logger.FieldPartial, partial,
		)
	}
	p.exclusions.Add(c.XC, c.YC+shift)
	result.Detections = append(result.Detections, Detection{
		Denomination: d,
		Component:    c,
		Diameter:     diameter,
		Circularity:  circularity,
		Partial:      partial,
		Counted:      counted,
		SlotID:       slot.ID,
	})
}

// Run processes frames until source is exhausted or context is cancelled
func (p *Processor) Run(ctx context.Context, source FrameSource) (Report, error) {
	for {
		select {
		case <-ctx.Done():
			return p.Report(), ctx.Err()
		default:
		}
		frame, err := source.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return p.Report(), errors.Wrap(err, "Can't read frame")
		}
		result, err := p.ProcessFrame(frame)
		if err != nil {
			return p.Report(), errors.Wrapf(err, "Can't process frame %d", p.frames+1)
		}
		p.logger.Debugw("Frame processed",
			logger.FieldFrame, result.Frame,
			logger.FieldCandidates, result.Candidates,
			logger.FieldCoin, len(result.Counted()),
		)
	}
	report := p.Report()
	p.logger.Infow("Processing finished",
		logger.FieldFrames, report.Frames,
		logger.FieldTotal, report.Total,
		logger.FieldValue, report.Value(),
	)
	return report, nil
}

// Report returns current tally with diameter statistics
func (p *Processor) Report() Report {
	return Report{
		Frames:    p.frames,
		Counts:    p.tally.Snapshot(),
		Total:     p.tally.Total(),
		Cents:     p.tally.Cents(),
		Diameters: p.counted.stats(),
		Coins:     p.counted.snapshot(p.tracker.Slots()),
	}
}

// Reset forgets every tracked coin, exclusion zone and count
func (p *Processor) Reset() {
	p.tracker.Reset()
	p.exclusions.Reset()
	p.tally = NewTally()
	p.counted = coinLog{}
	p.frames = 0
}
