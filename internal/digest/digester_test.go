package digest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/vibe-digest/internal/fragment"
	"github.com/inodb/vibe-digest/internal/plan"
)

type mapLookup map[string]string

func (m mapLookup) GetSequence(id string) string { return m[id] }

// recordingWriter keeps everything written to it.
type recordingWriter struct {
	ids     []string
	frags   []*fragment.Fragments
	flushed bool
	failOn  string
}

func (w *recordingWriter) WriteHeader() error { return nil }

func (w *recordingWriter) Write(p *plan.Plan, fs *fragment.Fragments) error {
	if p.ID == w.failOn {
		return errors.New("disk full")
	}
	w.ids = append(w.ids, p.ID)
	w.frags = append(w.frags, fs)
	return nil
}

func (w *recordingWriter) Flush() error {
	w.flushed = true
	return nil
}

func stickyPlan() *plan.Plan {
	return &plan.Plan{
		ID:     "sticky",
		Bounds: plan.Bounds{PLeft: intp(0), PRight: intp(5), CLeft: intp(0), CRight: intp(5)},
		Cuts: []plan.Cut{
			{Vertical: &plan.VerticalCut{PLeft: intp(1), CLeft: intp(3)}},
		},
	}
}

func TestDigest_Placeholder(t *testing.T) {
	fs, err := NewDigester(nil).Digest(stickyPlan())
	require.NoError(t, err)

	assert.Equal(t, "012345", fs.Primary())
	display := fs.ForDisplay()
	assert.Equal(t, "01  ", display[0].Primary)
	assert.Equal(t, "0123", display[0].Complement)
}

func TestDigest_InlineSequence(t *testing.T) {
	p := stickyPlan()
	p.Sequence = "ACGTAC"

	fs, err := NewDigester(nil).Digest(p)
	require.NoError(t, err)

	assert.Equal(t, "ACGTAC", fs.Primary())
	assert.Equal(t, "TGCATG", fs.Complement())
	display := fs.ForDisplay()
	require.Len(t, display, 2)
	assert.Equal(t, "AC  ", display[0].Primary)
	assert.Equal(t, "TGCA", display[0].Complement)
	assert.Equal(t, "GTAC", display[1].Primary)
	assert.Equal(t, "  TG", display[1].Complement)
}

func TestDigest_FASTASequenceIsSlicedToBounds(t *testing.T) {
	p := &plan.Plan{
		ID:         "window",
		Bounds:     plan.Bounds{PLeft: intp(2), PRight: intp(7)},
		SequenceID: "pUC19",
		Cuts: []plan.Cut{
			{Vertical: &plan.VerticalCut{PLeft: intp(4), CLeft: intp(4)}},
		},
	}

	d := NewDigester(mapLookup{"pUC19": "GGAATTCCAA"})
	fs, err := d.Digest(p)
	require.NoError(t, err)

	assert.Equal(t, "AATTCC", fs.Primary())
	display := fs.ForDisplay()
	require.Len(t, display, 2)
	assert.Equal(t, "AAT", display[0].Primary)
	assert.Equal(t, "TCC", display[1].Primary)
	assert.Equal(t, "AGG", display[1].Complement)
}

func TestDigest_Errors(t *testing.T) {
	t.Run("unknown record", func(t *testing.T) {
		p := stickyPlan()
		p.SequenceID = "missing"
		_, err := NewDigester(mapLookup{}).Digest(p)
		assert.ErrorIs(t, err, ErrUnknownSequence)
	})

	t.Run("no lookup", func(t *testing.T) {
		p := stickyPlan()
		p.SequenceID = "pUC19"
		_, err := NewDigester(nil).Digest(p)
		assert.ErrorIs(t, err, ErrUnknownSequence)
	})

	t.Run("sequence too short", func(t *testing.T) {
		p := stickyPlan()
		p.Sequence = "ACG"
		_, err := NewDigester(nil).Digest(p)
		assert.ErrorIs(t, err, ErrSequenceTooShort)
	})
}

const plans = `id: first
bounds: {p_left: 0, p_right: 5}
cuts:
  - vertical: {p_left: 2, c_left: 2}
---
id: broken
bounds: {p_left: 0, p_right: 5}
cuts:
  - vertical: {p_left: 9}
---
id: third
bounds: {p_left: 0, p_right: 3}
`

func TestDigestAll(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewDigester(nil)
	d.SetLogger(zap.New(core))
	d.SetWorkers(3)

	w := &recordingWriter{}
	err := d.DigestAll(plan.NewParserFromReader(strings.NewReader(plans)), w)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "third"}, w.ids)
	assert.Equal(t, 2, w.frags[0].Len())
	assert.Equal(t, 1, w.frags[1].Len())
	assert.True(t, w.flushed)

	warnings := logs.FilterMessage("failed to digest plan").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "broken", warnings[0].ContextMap()["plan"])
	assert.EqualValues(t, 2, warnings[0].ContextMap()["document"])

	done := logs.FilterMessage("digest complete").All()
	require.Len(t, done, 1)
	assert.EqualValues(t, 3, done[0].ContextMap()["plans"])
	assert.EqualValues(t, 1, done[0].ContextMap()["failed"])
}

func TestDigestAll_WriteError(t *testing.T) {
	w := &recordingWriter{failOn: "first"}
	err := NewDigester(nil).DigestAll(plan.NewParserFromReader(strings.NewReader(plans)), w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, w.flushed)
}

func TestDigestAll_ParseError(t *testing.T) {
	w := &recordingWriter{}
	err := NewDigester(nil).DigestAll(plan.NewParserFromReader(strings.NewReader("id: [\n")), w)

	var pe *plan.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.False(t, w.flushed)
}
