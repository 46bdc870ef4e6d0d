package entity

// WizardStep paso del asistente de carga. Solo avanza en este orden o vuelve a Idle.
type WizardStep int

const (
	StepIdle WizardStep = iota
	StepUploadOrders
	StepUploadSettlement
	StepEnterCosts
	StepShowReport
)

var stepNames = [...]string{"idle", "upload_orders", "upload_settlement", "enter_costs", "show_report"}

func (s WizardStep) String() string {
	if s < StepIdle || s > StepShowReport {
		return "unknown"
	}
	return stepNames[s]
}

// Next devuelve el paso siguiente; ShowReport no tiene siguiente (solo Reset).
func (s WizardStep) Next() (WizardStep, bool) {
	if s >= StepShowReport {
		return s, false
	}
	return s + 1, true
}
