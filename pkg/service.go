package lambdakernel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/vilterp/lambdakernel/pkg/lang"
	clog "github.com/vilterp/lambdakernel/pkg/log"
	"github.com/vilterp/lambdakernel/pkg/store"
	"go.uber.org/zap"
)

// Service answers kernel requests on behalf of connected clients and keeps
// every proof it produces in its store.
type Service struct {
	config *Config
	store  store.Store

	mu struct {
		sync.Mutex
		connections      map[connectionID]*connection
		nextConnectionID int
	}

	ctx     context.Context
	metrics *metrics
}

func NewService(config *Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var s store.Store
	if config.DataFile == "" {
		s = store.NewMemStore()
	} else {
		boltStore, err := store.OpenBoltStore(config.DataFile)
		if err != nil {
			return nil, err
		}
		s = boltStore
	}
	return newService(config, s), nil
}

func newService(config *Config, s store.Store) *Service {
	service := &Service{
		config: config,
		store:  s,
		ctx:    context.Background(),
	}
	service.mu.connections = make(map[connectionID]*connection)
	service.metrics = newMetrics(service)
	return service
}

func (s *Service) Ctx() context.Context {
	return s.ctx
}

// addConnection connects a websocket to the service and serves it until it
// is closed.
func (s *Service) addConnection(wsConn *websocket.Conn) {
	s.mu.Lock()
	conn := newConnection(wsConn, s, s.mu.nextConnectionID)
	s.mu.nextConnectionID++
	s.mu.connections[conn.id] = conn
	s.mu.Unlock()

	conn.handleRequests()
}

func (s *Service) removeConn(conn *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mu.connections, conn.id)
}

func (s *Service) numConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mu.connections)
}

// Close hangs up on every client and closes the store.
func (s *Service) Close() error {
	s.mu.Lock()
	for _, conn := range s.mu.connections {
		conn.clientConn.Close()
	}
	s.mu.Unlock()
	return s.store.Close()
}

func (s *Service) fuel(requested *int) (int, error) {
	if requested == nil {
		return s.config.DefaultFuel, nil
	}
	if *requested < 0 {
		return 0, &validationError{error: fmt.Errorf("negative fuel %d", *requested)}
	}
	if *requested > s.config.MaxFuel {
		return 0, &fuelLimitExceeded{Requested: *requested, Max: s.config.MaxFuel}
	}
	return *requested, nil
}

// Normalize reduces t to weak head normal form, or to full normal form if
// full is set.
func (s *Service) Normalize(ctx context.Context, t lang.Term, fuel *int, full bool) (lang.Outcome, error) {
	budget, err := s.fuel(fuel)
	if err != nil {
		return nil, err
	}
	if err := lang.CheckWellFormed(t, lang.Open); err != nil {
		return nil, &validationError{error: err}
	}

	var out lang.Outcome
	if full {
		out = lang.NormalizeFull(t, budget)
	} else {
		out = lang.Normalize(t, budget)
	}
	s.metrics.reductionSteps.Observe(float64(out.StepsTaken()))
	if _, ok := out.(*lang.OutOfFuel); ok {
		clog.ForContext(ctx).Debug("normalize ran out of fuel", zap.Int("fuel", budget))
	}
	return out, nil
}

// Verification is a stored proof and the ID it is stored under.
type Verification struct {
	ID    uuid.UUID
	Proof *lang.Proof
	// Replayed is set when the proof was found in the store rather than
	// produced for this request.
	Replayed bool
}

// Verify decides whether a and b are beta-equivalent. A conclusive verdict
// already in the store for the same subjects is returned without reducing
// again.
func (s *Service) Verify(ctx context.Context, a lang.Term, b lang.Term, fuel *int) (*Verification, error) {
	budget, err := s.fuel(fuel)
	if err != nil {
		return nil, err
	}
	for _, t := range []lang.Term{a, b} {
		if err := lang.CheckWellFormed(t, lang.Open); err != nil {
			return nil, &validationError{error: err}
		}
	}

	if s.config.CheckConsistency {
		for _, t := range []lang.Term{a, b} {
			if cert, ok := lang.CheckInconsistency(t, budget).(*lang.InconsistencyCertificate); ok {
				return s.recordCertificate(ctx, cert)
			}
		}
	}

	hashA := lang.HashTerm(a)
	hashB := lang.HashTerm(b)
	prev, id, ok, err := s.store.LookupVerdict(hashA, hashB)
	if err != nil {
		return nil, errors.Wrap(err, "looking up verdict")
	}
	if ok {
		s.metrics.replays.Inc()
		clog.ForContext(ctx).Debug("replaying stored verdict", zap.Stringer("proof", id))
		return &Verification{ID: id, Proof: prev, Replayed: true}, nil
	}

	proof := lang.VerifyEquiv(a, b, budget)
	s.metrics.verdicts.WithLabelValues(proof.Verdict().Kind().String()).Inc()
	s.metrics.reductionSteps.Observe(float64(len(proof.Trace())))

	id, err = s.store.PutProof(proof)
	if err != nil {
		return nil, errors.Wrap(err, "storing proof")
	}
	return &Verification{ID: id, Proof: proof}, nil
}

func (s *Service) Alpha(a lang.Term, b lang.Term) bool {
	return lang.AlphaEquiv(a, b)
}

// Check runs t through the inconsistency detector. A certificate is stored
// and its ID returned; otherwise the ID is uuid.Nil.
func (s *Service) Check(ctx context.Context, t lang.Term, fuel *int) (lang.Consistency, uuid.UUID, error) {
	budget, err := s.fuel(fuel)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := lang.CheckWellFormed(t, lang.Open); err != nil {
		return nil, uuid.Nil, &validationError{error: err}
	}

	res := lang.CheckInconsistency(t, budget)
	if cert, ok := res.(*lang.InconsistencyCertificate); ok {
		v, err := s.recordCertificate(ctx, cert)
		if err != nil {
			return nil, uuid.Nil, err
		}
		return res, v.ID, nil
	}
	return res, uuid.Nil, nil
}

func (s *Service) recordCertificate(ctx context.Context, cert *lang.InconsistencyCertificate) (*Verification, error) {
	s.metrics.inconsistencies.Inc()
	s.metrics.verdicts.WithLabelValues(lang.KindInconsistent.String()).Inc()
	id, err := s.store.PutProof(cert.Proof)
	if err != nil {
		return nil, errors.Wrap(err, "storing certificate")
	}
	clog.ForContext(ctx).Warn("inconsistency certificate issued",
		zap.Stringer("proof", id),
		zap.Stringer("subject", cert.Proof.A()))
	return &Verification{ID: id, Proof: cert.Proof}, nil
}

func (s *Service) GetProof(id string) (*Verification, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, &validationError{error: errors.Wrap(err, "proof id")}
	}
	proof, err := s.store.GetProof(parsed)
	if errors.Cause(err) == store.ErrNotFound {
		return nil, &noSuchProof{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &Verification{ID: parsed, Proof: proof}, nil
}

// Handle runs one request to completion. Failures are reported in the
// response rather than returned.
func (s *Service) Handle(ctx context.Context, req *Request) *Response {
	startTime := time.Now()
	resp, err := s.handle(ctx, req)
	if err != nil {
		resp = &Response{Error: err.Error()}
		s.metrics.failures.WithLabelValues(opLabel(req.Op)).Inc()
	}
	resp.ID = req.ID

	s.metrics.requests.WithLabelValues(opLabel(req.Op)).Inc()
	s.metrics.latency.WithLabelValues(opLabel(req.Op)).Observe(float64(time.Since(startTime).Nanoseconds()))
	return resp
}

func (s *Service) handle(ctx context.Context, req *Request) (*Response, error) {
	n := &names{}
	switch req.Op {
	case OpNormalize:
		t, err := n.resolve(req.Term)
		if err != nil {
			return nil, err
		}
		out, err := s.Normalize(ctx, t, req.Fuel, req.Full)
		if err != nil {
			return nil, err
		}
		res := &NormalizeResult{Steps: out.StepsTaken()}
		var reached lang.Term
		switch tOut := out.(type) {
		case *lang.NormalForm:
			reached = tOut.Term
		case *lang.OutOfFuel:
			reached = tOut.Last
			res.OutOfFuel = true
		}
		res.Term = n.print(reached)
		if res.Encoded, err = lang.EncodeTerm(reached); err != nil {
			return nil, err
		}
		return &Response{Normalize: res}, nil

	case OpVerify:
		a, err := n.resolve(req.A)
		if err != nil {
			return nil, err
		}
		b, err := n.resolve(req.B)
		if err != nil {
			return nil, err
		}
		v, err := s.Verify(ctx, a, b, req.Fuel)
		if err != nil {
			return nil, err
		}
		return &Response{Verify: n.proofResult(v)}, nil

	case OpAlpha:
		a, err := n.resolve(req.A)
		if err != nil {
			return nil, err
		}
		b, err := n.resolve(req.B)
		if err != nil {
			return nil, err
		}
		return &Response{Alpha: &AlphaResult{Equivalent: s.Alpha(a, b)}}, nil

	case OpCheck:
		t, err := n.resolve(req.Term)
		if err != nil {
			return nil, err
		}
		res, id, err := s.Check(ctx, t, req.Fuel)
		if err != nil {
			return nil, err
		}
		out := &CheckResult{}
		switch tRes := res.(type) {
		case *lang.Consistent:
			out.Status = StatusConsistent
			out.WHNF = n.print(tRes.WHNF)
			out.Steps = tRes.Steps
		case *lang.InconsistencyCertificate:
			out.Status = StatusInconsistent
			out.ProofID = id.String()
			out.Steps = len(tRes.Proof.Trace())
			if v, ok := tRes.Proof.Verdict().(*lang.Inconsistent); ok {
				out.Witness = n.witness(v.Witness)
			}
		case *lang.ConsistencyUnknown:
			out.Status = StatusUnknown
			out.Steps = tRes.Steps
		}
		return &Response{Check: out}, nil

	case OpBatch:
		responses, err := s.Batch(ctx, req.Batch)
		if err != nil {
			return nil, err
		}
		return &Response{Batch: responses}, nil

	case OpGetProof:
		v, err := s.GetProof(req.ProofID)
		if err != nil {
			return nil, err
		}
		return &Response{Proof: n.proofResult(v)}, nil
	}
	return nil, &unknownOp{Op: string(req.Op)}
}
