package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"minutes/internal/app/model"
)

// ToExcel writes stored transcriptions to an xlsx workbook.
func ToExcel(transcriptions []model.Transcription, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcriptions")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Filename"
	headerRow.AddCell().Value = "Created At"
	headerRow.AddCell().Value = "Transcript"
	headerRow.AddCell().Value = "Speakers"
	headerRow.AddCell().Value = "Summary"

	for _, t := range transcriptions {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(t.ID)
		row.AddCell().Value = t.Filename
		row.AddCell().Value = t.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = t.Transcript
		row.AddCell().Value = t.Speakers
		row.AddCell().Value = t.Summary
	}

	return file.Save(outputFilePath)
}
