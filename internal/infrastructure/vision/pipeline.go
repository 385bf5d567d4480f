//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"line-detector/internal/domain/entity"
	"line-detector/internal/domain/port"
)

// pipelineState состояние конвейера между стадиями.
type pipelineState int

const (
	stateLoaded pipelineState = iota
	stateSegmented
	stateAreaChecked
	stateCleaned
	stateEdgesComputed
	stateLinesDetected
	stateAnnotated
	stateCompleted
)

var stateNames = map[pipelineState]string{
	stateLoaded:        "loaded",
	stateSegmented:     "segmented",
	stateAreaChecked:   "area_checked",
	stateCleaned:       "cleaned",
	stateEdgesComputed: "edges_computed",
	stateLinesDetected: "lines_detected",
	stateAnnotated:     "annotated",
	stateCompleted:     "completed",
}

func (s pipelineState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// step выполняет одну стадию: либо следующее состояние, либо терминальный результат.
type step func(ctx context.Context, r *run) (pipelineState, *entity.DetectionResult)

// run буферы одного вызова. Каждая стадия создаёт свой выход и не трогает вход.
type run struct {
	req   entity.DetectionRequest
	ext   string
	log   zerolog.Logger
	owned []gocv.Mat

	image, mask, cleaned, edges, annotated gocv.Mat

	area    int
	lines   []entity.LineSegment
	maskRef string
}

func (r *run) own(m gocv.Mat) gocv.Mat {
	r.owned = append(r.owned, m)
	return m
}

func (r *run) close() {
	for _, m := range r.owned {
		m.Close()
	}
	r.owned = nil
}

// terminal собирает итог с уже посчитанными артефактами.
func (r *run) terminal(status entity.DetectionStatus, message string) *entity.DetectionResult {
	return &entity.DetectionResult{
		Status:   status,
		Message:  message,
		MaskRef:  r.maskRef,
		Lines:    []entity.LineSegment{},
		BlueArea: r.area,
	}
}

func (r *run) fail(err error) *entity.DetectionResult {
	res := r.terminal(entity.StatusProcessingError, entity.MsgProcessingError)
	res.Error = err.Error()
	return res
}

// Pipeline оркестратор: сегментация, проверка площади, очистка, границы,
// поиск линий, разметка. Безопасен для параллельных вызовов: общая только
// неизменяемая конфигурация.
type Pipeline struct {
	cfg   entity.DetectionConfig
	store port.ArtifactStore
	log   zerolog.Logger
	steps map[pipelineState]step
}

// NewPipeline создаёт конвейер. cfg должен пройти Validate.
func NewPipeline(cfg entity.DetectionConfig, store port.ArtifactStore, logger zerolog.Logger) *Pipeline {
	p := &Pipeline{
		cfg:   cfg,
		store: store,
		log:   logger.With().Str("component", "pipeline").Logger(),
	}
	p.steps = map[pipelineState]step{
		stateLoaded:        p.segment,
		stateSegmented:     p.checkArea,
		stateAreaChecked:   p.clean,
		stateCleaned:       p.extractEdges,
		stateEdgesComputed: p.findLines,
		stateLinesDetected: p.annotate,
		stateAnnotated:     p.complete,
	}
	return p
}

// Detect прогоняет изображение через конвейер. Ни ошибка, ни паника не выходят
// наружу: любой сбой превращается в DetectionResult.
func (p *Pipeline) Detect(ctx context.Context, req entity.DetectionRequest) (result *entity.DetectionResult) {
	r := &run{
		req: req,
		ext: req.ArtifactExt(),
		log: p.log.With().Str("request_id", req.RequestID).Logger(),
	}
	defer r.close()

	state := stateLoaded
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			result = r.fail(fmt.Errorf("panic in %s stage: %v", state, rec))
		}
		level := zerolog.InfoLevel
		if !result.Status.IsSoft() {
			level = zerolog.WarnLevel
		}
		r.log.WithLevel(level).
			Str("status", string(result.Status)).
			Str("error", result.Error).
			Int("lines", len(result.Lines)).
			Int("blue_area", result.BlueArea).
			Dur("elapsed", time.Since(started)).
			Msg("detection finished")
	}()

	img, err := decodeToMat(req.Data)
	if err != nil {
		return entity.NewFailedResult(entity.StatusLoadFailed, err)
	}
	r.image = r.own(img)

	for {
		stepStarted := time.Now()
		next, res := p.steps[state](ctx, r)
		if res != nil {
			return res
		}
		r.log.Debug().
			Str("from", state.String()).
			Str("to", next.String()).
			Dur("elapsed", time.Since(stepStarted)).
			Msg("stage done")
		state = next
	}
}

func (p *Pipeline) segment(_ context.Context, r *run) (pipelineState, *entity.DetectionResult) {
	mask, err := Segment(r.image, p.cfg.Color)
	r.mask = r.own(mask)
	if errors.Is(err, ErrEmptyImage) {
		return 0, entity.NewFailedResult(entity.StatusLoadFailed, err)
	}
	if err != nil {
		return 0, r.fail(err)
	}
	return stateSegmented, nil
}

func (p *Pipeline) checkArea(ctx context.Context, r *run) (pipelineState, *entity.DetectionResult) {
	// маску сохраняем до проверки: она нужна для диагностики при любом исходе
	ref, err := p.persist(ctx, r, "mask", r.mask)
	if err != nil {
		return 0, r.fail(err)
	}
	r.maskRef = ref

	passed, count := EvaluateArea(r.mask, p.cfg.MinArea)
	r.area = count
	if !passed {
		return 0, r.terminal(entity.StatusInsufficientArea, entity.MsgInsufficientArea)
	}
	return stateAreaChecked, nil
}

func (p *Pipeline) clean(_ context.Context, r *run) (pipelineState, *entity.DetectionResult) {
	cleaned, err := Clean(r.mask, p.cfg.KernelSize)
	r.cleaned = r.own(cleaned)
	if err != nil {
		return 0, r.fail(err)
	}
	return stateCleaned, nil
}

func (p *Pipeline) extractEdges(_ context.Context, r *run) (pipelineState, *entity.DetectionResult) {
	edges, err := DetectEdges(r.cleaned, p.cfg.CannyLow, p.cfg.CannyHigh)
	r.edges = r.own(edges)
	if err != nil {
		return 0, r.fail(err)
	}
	return stateEdgesComputed, nil
}

func (p *Pipeline) findLines(ctx context.Context, r *run) (pipelineState, *entity.DetectionResult) {
	if p.cfg.LineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.LineTimeout)
		defer cancel()
	}

	lines, err := FindLines(ctx, r.edges, p.cfg.Hough)
	if err != nil {
		return 0, r.fail(err)
	}
	if len(lines) == 0 {
		return 0, r.terminal(entity.StatusNoLinesFound, entity.MsgNoLinesFound)
	}
	r.lines = lines
	return stateLinesDetected, nil
}

func (p *Pipeline) annotate(_ context.Context, r *run) (pipelineState, *entity.DetectionResult) {
	annotated, err := Draw(r.image, r.lines, p.cfg.AnnotationColor, p.cfg.AnnotationThickness)
	r.annotated = r.own(annotated)
	if err != nil {
		return 0, r.fail(err)
	}
	return stateAnnotated, nil
}

func (p *Pipeline) complete(ctx context.Context, r *run) (pipelineState, *entity.DetectionResult) {
	ref, err := p.persist(ctx, r, "annotated", r.annotated)
	if err != nil {
		return 0, r.fail(err)
	}

	res := r.terminal(entity.StatusSuccess, entity.MsgSuccess)
	res.AnnotatedRef = ref
	res.Lines = r.lines
	return stateCompleted, res
}

// persist кодирует буфер в формат входа и кладёт в хранилище под именем запроса.
func (p *Pipeline) persist(ctx context.Context, r *run, name string, mat gocv.Mat) (string, error) {
	data, err := encodeMat(r.ext, mat)
	if err != nil {
		return "", fmt.Errorf("persist %s: %w", name, err)
	}
	ref, err := p.store.Put(ctx, r.req.RequestID, name+r.ext, data)
	if err != nil {
		return "", fmt.Errorf("persist %s: %w", name, err)
	}
	return ref, nil
}
