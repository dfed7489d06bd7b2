package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/insightdelivered/dirham-statement-importer/internal/logger"
	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// Extract runs ex over every line and returns the statement's records.
// Line-level problems are recorded in Statement.Lines and counted; a
// statement with no records or with a record outside the period fails
// as a whole.
func Extract(ctx context.Context, ex Extractor, lines []string, period models.StatementPeriod) (*models.Statement, error) {
	log := logger.FromContext(ctx)

	st := &models.Statement{
		Variant: ex.Variant(),
		Period:  period,
	}

	for i, line := range lines {
		res := models.LineResult{LineNum: i + 1, Text: line}
		rec, err := extractLine(ex, line, period, &res)
		if err != nil {
			res.Result = models.LineFailed
			res.Reason = err.Error()
			st.FailedLines++
		}
		if res.Result != models.LineParsed {
			log.Debug().Int("line", res.LineNum).Str("result", res.Result).Str("reason", res.Reason).Msg("line not parsed")
		}
		st.Lines = append(st.Lines, res)
		if rec != nil {
			st.Records = append(st.Records, *rec)
		}
	}

	if len(st.Records) == 0 {
		return nil, fmt.Errorf("%w: %d lines read, %d failed", ErrNoTransactions, len(lines), st.FailedLines)
	}

	prefix := period.String() + "-"
	for _, r := range st.Records {
		if !strings.HasPrefix(r.OperationDate, prefix) {
			return nil, fmt.Errorf("%w: %s not in %s", ErrPeriodConsistency, r.OperationDate, period)
		}
	}
	return st, nil
}

func extractLine(ex Extractor, line string, period models.StatementPeriod, res *models.LineResult) (*models.TransactionRecord, error) {
	switch {
	case strings.TrimSpace(line) == "":
		res.Result, res.Reason = models.LineSkipped, "blank"
		return nil, nil
	}

	// Summary rows are only recognised among lines the row grammar rejects.
	tok, ok := ex.Tokenize(line)
	if !ok {
		if isSummaryLine(line) {
			res.Result, res.Reason = models.LineSkipped, "balance or total"
		} else {
			res.Result = models.LineUnmatched
		}
		return nil, nil
	}

	mag := ParseAmount(tok.AmountText)
	if err := ValidateAmount(mag); err != nil {
		return nil, err
	}

	op, val, err := ex.Dates(tok, period)
	if err != nil {
		return nil, err
	}

	dir := InferDirection(tok.Description)
	res.Result = models.LineParsed
	return &models.TransactionRecord{
		Code:          tok.Code,
		OperationDate: op,
		ValueDate:     val,
		Description:   tok.Description,
		Amount:        ApplySign(mag, dir),
		Direction:     dir,
		Category:      Categorize(tok.Description),
	}, nil
}
