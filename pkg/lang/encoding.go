package lang

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Terms are encoded in prefix order, one tag byte per node; a variable's tag
// is followed by its index as a 4-byte big-endian integer. Proofs wrap their
// terms in a fixed header and length-prefixed sections. Fuel and step counts
// are 8-byte big-endian integers.

const (
	tagVar    byte = 'v'
	tagLambda byte = 'l'
	tagApp    byte = 'a'
)

var proofMagic = []byte("LKPF")

const proofVersion byte = 1

func EncodeTerm(t Term) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := writeTerm(buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func MustEncodeTerm(t Term) []byte {
	res, err := EncodeTerm(t)
	if err != nil {
		panic(fmt.Sprintf("error encoding: %v", err))
	}
	return res
}

func writeTerm(buf *bytes.Buffer, t Term) error {
	if err := CheckWellFormed(t, Open); err != nil {
		return err
	}
	stack := []Term{t}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch tt := top.(type) {
		case *EVar:
			if uint64(tt.index) > math.MaxUint32 {
				return fmt.Errorf("index %d too large to encode", tt.index)
			}
			buf.WriteByte(tagVar)
			buf.Write(EncodeInteger(uint32(tt.index)))
		case *ELambda:
			buf.WriteByte(tagLambda)
			stack = append(stack, tt.body)
		case *EApp:
			buf.WriteByte(tagApp)
			stack = append(stack, tt.arg, tt.fn)
		}
	}
	return nil
}

func DecodeTerm(theBytes []byte) (Term, error) {
	d := &decoder{buf: theBytes}
	t, err := d.term()
	if err != nil {
		return nil, err
	}
	if err := d.end(); err != nil {
		return nil, err
	}
	if err := CheckWellFormed(t, Open); err != nil {
		return nil, err
	}
	return t, nil
}

func EncodeProof(p *Proof) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.Write(proofMagic)
	buf.WriteByte(proofVersion)
	buf.Write(encodeCount(p.fuel))

	if err := writeTerm(buf, p.a); err != nil {
		return nil, err
	}
	if err := writeTerm(buf, p.b); err != nil {
		return nil, err
	}

	buf.WriteByte(byte(p.verdict.Kind()))
	switch v := p.verdict.(type) {
	case *Equivalent:
	case *NotEquivalent:
		if err := writeWitness(buf, v.Witness); err != nil {
			return nil, err
		}
	case *Inconclusive:
		buf.Write(encodeCount(v.Steps))
	case *Inconsistent:
		if err := writeWitness(buf, v.Witness); err != nil {
			return nil, err
		}
	}

	if uint64(len(p.trace)) > math.MaxUint32 {
		return nil, fmt.Errorf("trace of %d steps too long to encode", len(p.trace))
	}
	buf.Write(EncodeInteger(uint32(len(p.trace))))
	for _, step := range p.trace {
		buf.WriteByte(byte(step.Side))
		writePath(buf, step.Path)
		if err := writeTerm(buf, step.Redex); err != nil {
			return nil, err
		}
		if err := writeTerm(buf, step.Contractum); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func MustEncodeProof(p *Proof) []byte {
	res, err := EncodeProof(p)
	if err != nil {
		panic(fmt.Sprintf("error encoding: %v", err))
	}
	return res
}

func writeWitness(buf *bytes.Buffer, w Witness) error {
	writePath(buf, w.Path)
	if err := writeTerm(buf, w.Left); err != nil {
		return err
	}
	return writeTerm(buf, w.Right)
}

func writePath(buf *bytes.Buffer, p Path) {
	buf.Write(EncodeInteger(uint32(len(p))))
	for _, d := range p {
		buf.WriteByte(byte(d))
	}
}

func DecodeProof(theBytes []byte) (*Proof, error) {
	d := &decoder{buf: theBytes}
	magic, err := d.bytes(len(proofMagic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, proofMagic) {
		return nil, d.fail("not a proof")
	}
	version, err := d.byte()
	if err != nil {
		return nil, err
	}
	if version != proofVersion {
		return nil, d.fail(fmt.Sprintf("unsupported proof version %d", version))
	}
	fuel, err := d.count()
	if err != nil {
		return nil, err
	}
	a, err := d.term()
	if err != nil {
		return nil, err
	}
	b, err := d.term()
	if err != nil {
		return nil, err
	}

	kind, err := d.byte()
	if err != nil {
		return nil, err
	}
	var verdict Verdict
	switch VerdictKind(kind) {
	case KindEquivalent:
		verdict = &Equivalent{}
	case KindNotEquivalent:
		w, err := d.witness()
		if err != nil {
			return nil, err
		}
		verdict = &NotEquivalent{Witness: w}
	case KindInconclusive:
		steps, err := d.count()
		if err != nil {
			return nil, err
		}
		verdict = &Inconclusive{Steps: steps}
	case KindInconsistent:
		w, err := d.witness()
		if err != nil {
			return nil, err
		}
		verdict = &Inconsistent{Witness: w}
	default:
		return nil, d.fail(fmt.Sprintf("unknown verdict %d", kind))
	}

	count, err := d.int()
	if err != nil {
		return nil, err
	}
	var trace []Step
	for i := 0; i < count; i++ {
		side, err := d.byte()
		if err != nil {
			return nil, err
		}
		if Side(side) != SideA && Side(side) != SideB {
			return nil, d.fail(fmt.Sprintf("unknown side %q", side))
		}
		path, err := d.path()
		if err != nil {
			return nil, err
		}
		redex, err := d.term()
		if err != nil {
			return nil, err
		}
		contractum, err := d.term()
		if err != nil {
			return nil, err
		}
		trace = append(trace, Step{
			Side:       Side(side),
			Path:       path,
			Redex:      redex,
			Contractum: contractum,
		})
	}
	if err := d.end(); err != nil {
		return nil, err
	}
	return newProof(a, b, verdict, trace, fuel), nil
}

func EncodeInteger(val uint32) []byte {
	intBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(intBytes, val)
	return intBytes
}

// encodeCount writes a non-negative fuel or step count.
func encodeCount(n int) []byte {
	countBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(countBytes, uint64(n))
	return countBytes
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) fail(reason string) error {
	return &DecodeError{Offset: d.pos, Reason: reason}
}

func (d *decoder) end() error {
	if d.pos != len(d.buf) {
		return d.fail(fmt.Sprintf("%d trailing bytes", len(d.buf)-d.pos))
	}
	return nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if len(d.buf)-d.pos < n {
		return nil, d.fail("unexpected end of input")
	}
	out := d.buf[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

func (d *decoder) byte() (byte, error) {
	b, err := d.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) int() (int, error) {
	b, err := d.bytes(4)
	if err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint32(b)
	if uint64(n) > math.MaxInt {
		d.pos -= 4
		return 0, d.fail(fmt.Sprintf("integer %d too large", n))
	}
	return int(n), nil
}

func (d *decoder) count() (int, error) {
	b, err := d.bytes(8)
	if err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint64(b)
	if n > math.MaxInt {
		d.pos -= 8
		return 0, d.fail(fmt.Sprintf("count %d too large", n))
	}
	return int(n), nil
}

func (d *decoder) path() (Path, error) {
	n, err := d.int()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	raw, err := d.bytes(n)
	if err != nil {
		return nil, err
	}
	p := make(Path, n)
	for i, b := range raw {
		switch Dir(b) {
		case DirBody, DirFunc, DirArg:
			p[i] = Dir(b)
		default:
			return nil, d.fail(fmt.Sprintf("unknown path step %q", b))
		}
	}
	return p, nil
}

func (d *decoder) witness() (Witness, error) {
	path, err := d.path()
	if err != nil {
		return Witness{}, err
	}
	left, err := d.term()
	if err != nil {
		return Witness{}, err
	}
	right, err := d.term()
	if err != nil {
		return Witness{}, err
	}
	return Witness{Path: path, Left: left, Right: right}, nil
}

// term reads one prefix-encoded term without recursion: constructors wait
// on a stack until all their children are complete.
func (d *decoder) term() (Term, error) {
	type pending struct {
		tag      byte
		children []Term
	}
	var stack []*pending

	for {
		tag, err := d.byte()
		if err != nil {
			return nil, err
		}

		var done Term
		switch tag {
		case tagVar:
			idx, err := d.int()
			if err != nil {
				return nil, err
			}
			done = &EVar{index: idx}
		case tagLambda, tagApp:
			stack = append(stack, &pending{tag: tag})
			continue
		default:
			return nil, d.fail(fmt.Sprintf("unknown tag %q", tag))
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			top.children = append(top.children, done)
			if top.tag == tagLambda {
				done = NewLambda(top.children[0])
			} else if len(top.children) == 2 {
				done = NewApp(top.children[0], top.children[1])
			} else {
				break
			}
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			return done, nil
		}
	}
}
