package db

import (
	"encoding/csv"
	directorystore "hr-pipeline-backend/lib/directory/store"
	dbmodels "hr-pipeline-backend/models/db"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const jobPositionsFile = "./static_preload/job_positions.csv"

// fillJobPositions предзаполнение вакансий, формат строки: название;подразделение;открыта(true/false)
func fillJobPositions() {
	if _, err := os.Stat(jobPositionsFile); err != nil {
		return
	}
	log.Info("предзаполнение вакансий")
	store := directorystore.NewInstance(DB)
	count, err := store.CountJobPositions()
	if err != nil {
		log.WithError(err).Error("ошибка предзаполнения вакансий")
		return
	}
	if count > 0 {
		log.Info("вакансии заполнены")
		return
	}

	lines, err := readCsvFile(jobPositionsFile, ';')
	if err != nil {
		log.WithError(err).Error("ошибка загрузки файла с вакансиями")
		return
	}
	for k, line := range lines {
		if len(line) < 2 || strings.TrimSpace(line[0]) == "" {
			log.Warnf("пропущена некорректная строка файла с вакансиями %v", k)
			continue
		}
		rec := dbmodels.JobPosition{
			Title:      strings.TrimSpace(line[0]),
			Department: strings.TrimSpace(line[1]),
			IsOpen:     len(line) < 3 || strings.TrimSpace(line[2]) != "false",
		}
		if _, err = store.CreateJobPosition(rec); err != nil {
			log.
				WithError(err).
				WithField("title", rec.Title).
				Error("ошибка добавления вакансии")
			return
		}
	}

	log.Info("вакансии добавлены")
}

func readCsvFile(filePath string, comma rune) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка открытия файла")
	}
	defer f.Close()

	csvReader := csv.NewReader(f)
	csvReader.Comma = comma
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка обработки файла")
	}

	return records, nil
}
