package xlsexport

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"hiring-compliance-backend/lib/compliance"
	"hiring-compliance-backend/models"
	dbmodels "hiring-compliance-backend/models/db"
)

type Provider interface {
	ExportCandidateList(list []dbmodels.SyncedCandidate) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var candidateHeaders = []string{"Name", "Email", "Phone", "Location", "Regulated", "Jurisdictions", "Consent status", "Consent granted", "Disclosure sent", "Compliance flags", "Last synced"}

const dateFormat = "2006-01-02"

func (i impl) ExportCandidateList(list []dbmodels.SyncedCandidate) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("xlsx file close failed")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, candidateHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "xlsx header write failed")
	}
	if len(list) != 0 {
		row, err = writeCandidateData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "xlsx data write failed")
		}
	}
	f.SetSheetName(sheet, "Candidates")
	return f.WriteToBuffer()
}

func writeCandidateData(f *excelize.File, sheet string, list []dbmodels.SyncedCandidate, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(candidateHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Name"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.GetFullName()); err != nil {
			return row, err
		}

		// "Email"
		col++
		if item.Email != nil {
			if err := writeColumn(f, sheet, col, row, *item.Email); err != nil {
				return row, err
			}
		}

		// "Phone"
		col++
		if item.Phone != nil {
			if err := writeColumn(f, sheet, col, row, *item.Phone); err != nil {
				return row, err
			}
		}

		// "Location"
		col++
		if item.Location != nil {
			if err := writeColumn(f, sheet, col, row, *item.Location); err != nil {
				return row, err
			}
		}

		// "Regulated"
		col++
		regulated := "no"
		if item.IsRegulated {
			regulated = "yes"
		}
		if err := writeColumn(f, sheet, col, row, regulated); err != nil {
			return row, err
		}

		// "Jurisdictions"
		col++
		if err := writeColumn(f, sheet, col, row, jurisdictionLabels(item.RegulatedJurisdictions)); err != nil {
			return row, err
		}

		// "Consent status"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.ConsentStatus)); err != nil {
			return row, err
		}

		// "Consent granted"
		col++
		if item.ConsentGrantedAt != nil {
			if err := writeColumn(f, sheet, col, row, item.ConsentGrantedAt.Format(dateFormat)); err != nil {
				return row, err
			}
		}

		// "Disclosure sent"
		col++
		if item.DisclosureSentAt != nil {
			if err := writeColumn(f, sheet, col, row, item.DisclosureSentAt.Format(dateFormat)); err != nil {
				return row, err
			}
		}

		// "Compliance flags"
		col++
		if err := writeColumn(f, sheet, col, row, flagLabels(item.ComplianceFlags)); err != nil {
			return row, err
		}

		// "Last synced"
		col++
		if !item.SyncedAt.IsZero() {
			if err := writeColumn(f, sheet, col, row, item.SyncedAt.Format(dateFormat)); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func jurisdictionLabels(codes []string) string {
	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		labels = append(labels, compliance.JurisdictionLabel(models.RegulationCode(code)))
	}
	return strings.Join(labels, "; ")
}

func flagLabels(flags dbmodels.ComplianceFlags) string {
	labels := make([]string, 0, len(flags))
	for _, flag := range flags {
		labels = append(labels, string(flag.Type))
	}
	return strings.Join(labels, "; ")
}
