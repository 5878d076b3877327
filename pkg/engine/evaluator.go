package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rajdefenseye/CMMC-lens3/pkg/logger"
)

const utf8BOM = "\uFEFF"

// Evaluator runs an ordered rule list over CSV rows. It holds no per-call
// state, so one Evaluator may serve concurrent analyses.
type Evaluator struct {
	rules []Rule
}

// NewEvaluator creates an evaluator. With no rules it uses DefaultRules.
func NewEvaluator(rules ...Rule) *Evaluator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	owned := make([]Rule, len(rules))
	copy(owned, rules)
	return &Evaluator{rules: owned}
}

// RuleNames returns the registered rule names in evaluation order
func (e *Evaluator) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// EvaluateRow applies every rule to row, in order. A row may trigger several.
func (e *Evaluator) EvaluateRow(row Row) ([]Finding, error) {
	var findings []Finding
	for _, r := range e.rules {
		f, err := r.Apply(row)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		if f != nil {
			logger.Debugf("Finding [%s] %s - %s", f.Assessment.Severity, r.Name, f.ControlID)
			findings = append(findings, *f)
		}
	}
	return findings, nil
}

// Analyze opens the CSV at path and evaluates it. Every failure comes back
// as an *AnalysisError.
func (e *Evaluator) Analyze(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &AnalysisError{Kind: FileNotFound, Path: path, Err: err}
		}
		return nil, &AnalysisError{Kind: UnexpectedError, Path: path, Err: err}
	}
	defer f.Close()

	rep, err := e.AnalyzeReader(f)
	if err != nil {
		ae := Classify(err)
		ae.Path = path
		return nil, ae
	}
	logger.Debugf("Analyzed %s: %d findings, posture %q", path, len(rep.Findings), rep.Posture)
	return rep, nil
}

// AnalyzeReader evaluates an already-open CSV stream. It never closes r.
func (e *Evaluator) AnalyzeReader(r io.Reader) (*Report, error) {
	cr := newRecordReader(r)

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	findings := make([]Finding, 0)
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, classifyReadError(err)
		}

		rowFindings, err := e.EvaluateRow(toRow(header, record))
		if err != nil {
			return nil, &AnalysisError{Kind: ProcessingError, Err: fmt.Errorf("row %d: %w", line, err)}
		}
		findings = append(findings, rowFindings...)
	}

	rep := NewReport(findings)
	if len(findings) == 0 {
		logger.Debugf("No compliance gaps detected")
	} else {
		logger.Debugf("Found %d compliance gaps", len(findings))
	}
	return rep, nil
}

// readHeader takes the first line as the header, so a leading blank line
// means there is no header.
func readHeader(cr *recordReader) ([]string, error) {
	header, err := cr.readRecord()
	if err == io.EOF {
		return nil, &AnalysisError{Kind: MalformedInput, Err: errNoHeader}
	}
	if err != nil {
		return nil, classifyReadError(err)
	}
	if len(header) == 0 {
		return nil, &AnalysisError{Kind: MalformedInput, Err: errNoHeader}
	}

	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	for _, name := range header {
		if name != "" {
			return header, nil
		}
	}
	return nil, &AnalysisError{Kind: MalformedInput, Err: errNoHeader}
}

// toRow maps record cells onto header names. Cells past the header are
// dropped; columns past the record are left absent.
func toRow(header, record []string) Row {
	row := make(Row, len(header))
	for i, name := range header {
		if i >= len(record) {
			break
		}
		if name == "" {
			continue
		}
		row[name] = record[i]
	}
	return row
}

func classifyReadError(err error) error {
	if errors.Is(err, errFieldLimit) {
		return &AnalysisError{Kind: ProcessingError, Err: err}
	}
	return &AnalysisError{Kind: UnexpectedError, Err: err}
}
