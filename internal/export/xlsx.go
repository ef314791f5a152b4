// Package export renders a finished job as an XLSX study pack.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"lecture-insights-go/internal/types"
)

// Build writes one workbook for a finished job. Sheets for disabled stages
// are simply absent.
func Build(job *types.Job) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, job); err != nil {
		return nil, err
	}
	if job.Keywords != nil {
		if err := writeKeywordsSheet(f, job.Keywords); err != nil {
			return nil, err
		}
	}
	if job.Segments != nil {
		if err := writeTopicsSheet(f, job.Segments); err != nil {
			return nil, err
		}
	}
	if job.Quiz != nil {
		if err := writeQuizSheet(f, job.Quiz); err != nil {
			return nil, err
		}
	}
	if job.Flashcards != nil {
		if err := writeFlashcardsSheet(f, job.Flashcards); err != nil {
			return nil, err
		}
	}
	if job.Metrics != nil {
		if err := writeMetricsSheet(f, job.Metrics); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func writeSummarySheet(f *excelize.File, job *types.Job) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Lecture", job.Filename},
		{"Job ID", job.ID},
	}
	if job.Summary != nil {
		rows = append(rows, []interface{}{}, []interface{}{"Overview", job.Summary.Overview}, []interface{}{})
		rows = append(rows, []interface{}{"Key points"})
		for _, p := range job.Summary.KeyPoints {
			rows = append(rows, []interface{}{"", p})
		}
		rows = append(rows, []interface{}{"Important concepts"})
		for _, c := range job.Summary.ImportantConcepts {
			rows = append(rows, []interface{}{"", c})
		}
	}
	return writeRows(f, sheet, rows)
}

func writeKeywordsSheet(f *excelize.File, keywords []string) error {
	const sheet = "Keywords"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	rows := [][]interface{}{{"#", "Keyword"}}
	for i, kw := range keywords {
		rows = append(rows, []interface{}{i + 1, kw})
	}
	return writeRows(f, sheet, rows)
}

func writeTopicsSheet(f *excelize.File, segments []types.TopicSegment) error {
	const sheet = "Topics"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	rows := [][]interface{}{{"Title", "Content"}}
	for _, seg := range segments {
		rows = append(rows, []interface{}{seg.Title, seg.Content})
	}
	return writeRows(f, sheet, rows)
}

func writeQuizSheet(f *excelize.File, quiz *types.Quiz) error {
	const sheet = "Quiz"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	rows := [][]interface{}{{"Multiple choice", "Difficulty"}}
	for _, q := range quiz.MCQs {
		rows = append(rows, []interface{}{q.Question, q.Difficulty})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Short answer", "Difficulty"})
	for _, q := range quiz.ShortAnswers {
		rows = append(rows, []interface{}{q.Question, q.Difficulty})
	}
	return writeRows(f, sheet, rows)
}

func writeFlashcardsSheet(f *excelize.File, cards []types.Flashcard) error {
	const sheet = "Flashcards"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	rows := [][]interface{}{{"Question", "Answer"}}
	for _, c := range cards {
		rows = append(rows, []interface{}{c.Question, c.Answer})
	}
	return writeRows(f, sheet, rows)
}

func writeMetricsSheet(f *excelize.File, m *types.Metrics) error {
	const sheet = "Metrics"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	wer := interface{}("n/a")
	if m.WER != nil {
		wer = *m.WER
	}
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"WER", wer},
		{"ROUGE-1", m.Rouge1},
		{"ROUGE-L", m.RougeL},
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
