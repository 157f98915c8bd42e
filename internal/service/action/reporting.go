package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/stats"
	"github.com/medhub/ambulatorio-api/internal/service/undo"
)

func (e *Executor) patientsCount(ctx context.Context, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.PatientsCountParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}

	total, byStatus, err := e.stats.PatientsCount(ctx, site, model.PatientType(params.Tipo), model.PatientStatus(params.Stato))
	if err != nil {
		e.logger.Error(err, "failed to count patients")
		return fail("❌ Errore durante il conteggio dei pazienti")
	}

	label := "pazienti"
	if params.Tipo != "" {
		label = fmt.Sprintf("pazienti %s", params.Tipo)
	}
	if params.Stato != "" {
		label = fmt.Sprintf("%s (%s)", label, params.Stato)
	}
	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("📊 %d %s", total, label),
		Extra: map[string]interface{}{
			"total":     total,
			"by_status": byStatus,
		},
	}
}

func (e *Executor) statsPeriod(anno, mese int) stats.Period {
	if anno == 0 {
		anno = e.now().Year()
	}
	return stats.MonthRange(anno, mese)
}

func (e *Executor) implantStatistics(ctx context.Context, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.ImplantStatisticsParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	period := e.statsPeriod(params.Anno, params.Mese)

	count, err := e.stats.ImplantCount(ctx, site, params.TipoImpianto, period)
	if err != nil {
		e.logger.Error(err, "failed to compute implant statistics")
		return fail("❌ Errore durante il calcolo delle statistiche")
	}

	label := "impianti"
	if params.TipoImpianto != "" {
		label = fmt.Sprintf("impianti %s", params.TipoImpianto)
	}
	result := &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("📊 %d %s nel periodo %s", count, label, period.Label),
		Extra: map[string]interface{}{
			"count":   count,
			"periodo": period.Label,
		},
	}
	if params.GeneratePDF {
		q := url.Values{}
		q.Set("anno", fmt.Sprintf("%d", params.Anno))
		if params.Mese > 0 {
			q.Set("mese", fmt.Sprintf("%d", params.Mese))
		}
		if params.TipoImpianto != "" {
			q.Set("tipo", params.TipoImpianto)
		}
		result.PDFEndpoint = "/api/print/statistiche/impianti?" + q.Encode()
		result.Filename = fmt.Sprintf("statistiche_impianti_%s.pdf", strings.ReplaceAll(period.Label, "/", "_"))
	}
	return result
}

func (e *Executor) prestazioniStatistics(ctx context.Context, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.PrestazioniStatisticsParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	period := e.statsPeriod(params.Anno, params.Mese)

	st, err := e.stats.PrestazioniStats(ctx, site, params.Tipo, period)
	if err != nil {
		e.logger.Error(err, "failed to compute prestazioni statistics")
		return fail("❌ Errore durante il calcolo delle statistiche")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %d appuntamenti nel periodo %s", st.Total, period.Label)
	if params.Tipo != "" {
		fmt.Fprintf(&b, " (%s)", params.Tipo)
	}
	for prestazione, n := range st.PerPrestazione {
		fmt.Fprintf(&b, "\n- %s: %d", prestazione, n)
	}

	result := &model.ActionResult{
		Success: true,
		Message: b.String(),
		Extra: map[string]interface{}{
			"total":           st.Total,
			"per_prestazione": st.PerPrestazione,
			"periodo":         period.Label,
		},
	}
	if params.GeneratePDF {
		q := url.Values{}
		q.Set("anno", fmt.Sprintf("%d", params.Anno))
		if params.Mese > 0 {
			q.Set("mese", fmt.Sprintf("%d", params.Mese))
		}
		if params.Tipo != "" {
			q.Set("tipo", params.Tipo)
		}
		result.PDFEndpoint = "/api/print/statistiche/prestazioni?" + q.Encode()
		result.Filename = fmt.Sprintf("statistiche_prestazioni_%s.pdf", strings.ReplaceAll(period.Label, "/", "_"))
	}
	return result
}

func (e *Executor) compareStatistics(ctx context.Context, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.CompareStatisticsParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	p1 := e.statsPeriod(params.Periodo1.Anno, params.Periodo1.Mese)
	p2 := e.statsPeriod(params.Periodo2.Anno, params.Periodo2.Mese)

	s1, err := e.stats.PrestazioniStats(ctx, site, params.Tipo, p1)
	if err != nil {
		e.logger.Error(err, "failed to compute comparison statistics")
		return fail("❌ Errore durante il confronto delle statistiche")
	}
	s2, err := e.stats.PrestazioniStats(ctx, site, params.Tipo, p2)
	if err != nil {
		e.logger.Error(err, "failed to compute comparison statistics")
		return fail("❌ Errore durante il confronto delle statistiche")
	}

	delta := s2.Total - s1.Total
	trend := "invariato"
	if delta > 0 {
		trend = fmt.Sprintf("+%d", delta)
	} else if delta < 0 {
		trend = fmt.Sprintf("%d", delta)
	}

	result := &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("📊 Confronto: %s = %d appuntamenti, %s = %d appuntamenti (%s)",
			p1.Label, s1.Total, p2.Label, s2.Total, trend),
		Extra: map[string]interface{}{
			"periodo1": map[string]interface{}{"label": p1.Label, "total": s1.Total},
			"periodo2": map[string]interface{}{"label": p2.Label, "total": s2.Total},
			"delta":    delta,
		},
	}
	if params.GeneratePDF {
		q := url.Values{}
		q.Set("anno1", fmt.Sprintf("%d", params.Periodo1.Anno))
		q.Set("mese1", fmt.Sprintf("%d", params.Periodo1.Mese))
		q.Set("anno2", fmt.Sprintf("%d", params.Periodo2.Anno))
		q.Set("mese2", fmt.Sprintf("%d", params.Periodo2.Mese))
		if params.Tipo != "" {
			q.Set("tipo", params.Tipo)
		}
		result.PDFEndpoint = "/api/print/statistiche/confronto?" + q.Encode()
		result.Filename = "confronto_statistiche.pdf"
	}
	return result
}

func (e *Executor) printPatientFolder(ctx context.Context, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.PrintPatientFolderParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}
	patient, errRes := e.resolvePatient(ctx, site, params.PatientName)
	if errRes != nil {
		return errRes
	}

	endpoint := "/api/print/cartella/" + patient.ID
	if params.Sezione != "" {
		endpoint += "?sezione=" + url.QueryEscape(params.Sezione)
	}
	filename := fmt.Sprintf("cartella_%s_%s.pdf",
		strings.ToLower(strings.ReplaceAll(patient.Cognome, " ", "_")),
		strings.ToLower(strings.ReplaceAll(patient.Nome, " ", "_")))

	return &model.ActionResult{
		Success:     true,
		Message:     fmt.Sprintf("📄 Cartella di %s pronta per la stampa", patient.FullName()),
		Patient:     model.NewPatientRef(patient),
		PDFEndpoint: endpoint,
		Filename:    filename,
	}
}

func (e *Executor) undoAction(ctx context.Context, userID string, site model.Ambulatorio, raw json.RawMessage) *model.ActionResult {
	var params model.UndoParams
	if err := decodeParams(raw, &params); err != nil {
		return fail("❌ Parametri non validi")
	}

	desc, err := e.undo.Reverse(ctx, userID, site, params.ActionID)
	if errors.Is(err, undo.ErrNothingToUndo) {
		return fail("❌ Nessuna azione da annullare")
	}
	if err != nil {
		e.logger.Error(err, "undo failed", "action_id", params.ActionID)
		return fail("❌ Errore durante l'annullamento dell'azione")
	}
	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("↩️ Azione annullata: %s", desc),
	}
}

func (e *Executor) listUndoActions(ctx context.Context, userID string, site model.Ambulatorio) *model.ActionResult {
	entries, err := e.undo.List(ctx, userID, site)
	if err != nil {
		e.logger.Error(err, "failed to list undo entries")
		return fail("❌ Errore durante la lettura delle azioni annullabili")
	}
	if len(entries) == 0 {
		return &model.ActionResult{Success: true, Message: "📋 Nessuna azione annullabile"}
	}

	var b strings.Builder
	b.WriteString("📋 Azioni annullabili:")
	for i, entry := range entries {
		fmt.Fprintf(&b, "\n%d. %s (%s)", i+1, entry.ActionDescription, entry.Timestamp.Format("02/01 15:04"))
	}
	return &model.ActionResult{
		Success: true,
		Message: b.String(),
		Extra:   map[string]interface{}{"actions": entries},
	}
}
