package entry

import (
	"encoding/json"
	"time"
)

// Method is one of the six payment methods an entry splits its sales into.
type Method int

const (
	Cash Method = iota
	UPI
	Card
	UdhaarPermanent
	UdhaarTemporary
	Others
)

const MethodCount = 6

// Methods in display order.
var Methods = [MethodCount]Method{Cash, UPI, Card, UdhaarPermanent, UdhaarTemporary, Others}

var methodKeys = [MethodCount]string{"cash", "upi", "card", "udhaarPermanent", "udhaarTemporary", "others"}
var methodColumns = [MethodCount]string{"cash", "upi", "card", "udhaar_permanent", "udhaar_temporary", "others"}
var methodLabels = [MethodCount]string{"Cash", "UPI", "Card", "Udhaar Permanent", "Udhaar Temporary", "Others"}

// Key is the camelCase name used in JSON payloads.
func (m Method) Key() string { return methodKeys[m] }

// Column is the persisted (snake_case) amount field name.
func (m Method) Column() string { return methodColumns[m] }

// LitersColumn is the persisted liters field name.
func (m Method) LitersColumn() string { return methodColumns[m] + "_liters" }

func (m Method) Label() string { return methodLabels[m] }

func (m Method) MarshalText() ([]byte, error) { return []byte(m.Key()), nil }

// Pair is the liters sold and the amount collected through one method.
type Pair struct {
	Liters float64 `json:"liters"`
	Amount float64 `json:"amount"`
}

// Payments is indexed by Method.
type Payments [MethodCount]Pair

func (p Payments) Liters() float64 {
	var liters [MethodCount]float64
	for i, pair := range p {
		liters[i] = pair.Liters
	}
	return sumDecimal(liters[:]...)
}

func (p Payments) Amounts() float64 {
	var sum float64
	for _, pair := range p {
		sum += pair.Amount
	}
	return Round2(sum)
}

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
)

// Order ranks shifts for the earliest-shift fallback.
func (s Shift) Order() int {
	if s == ShiftEvening {
		return 1
	}
	return 0
}

func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftEvening
}

// Entry is the canonical in-memory shape every calculation works on.
type Entry struct {
	ID              uint
	Date            time.Time
	MachineID       uint // 0 = implicit legacy machine
	MachineName     string
	MachineLocation string
	Shift           Shift
	TotalMilkLoaded float64
	DistributedMilk float64
	LeftoverMilk    float64
	Payments        Payments
	TotalAmount     float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Recalculated returns a copy whose derived fields are computed from its inputs.
func (e Entry) Recalculated() Entry {
	e.DistributedMilk = e.Payments.Liters()
	e.LeftoverMilk = DeriveLeftover(e.TotalMilkLoaded, e.DistributedMilk)
	e.TotalAmount = e.Payments.Amounts()
	return e
}

type entryJSON struct {
	ID                    uint    `json:"id,omitempty"`
	Date                  string  `json:"date"`
	MachineID             uint    `json:"machineId"`
	MachineName           string  `json:"machineName,omitempty"`
	MachineLocation       string  `json:"machineLocation,omitempty"`
	Shift                 Shift   `json:"shift"`
	TotalMilkLoaded       float64 `json:"totalMilkLoaded"`
	DistributedMilk       float64 `json:"distributedMilk"`
	LeftoverMilk          float64 `json:"leftoverMilk"`
	CashLiters            float64 `json:"cashLiters"`
	Cash                  float64 `json:"cash"`
	UpiLiters             float64 `json:"upiLiters"`
	Upi                   float64 `json:"upi"`
	CardLiters            float64 `json:"cardLiters"`
	Card                  float64 `json:"card"`
	UdhaarPermanentLiters float64 `json:"udhaarPermanentLiters"`
	UdhaarPermanent       float64 `json:"udhaarPermanent"`
	UdhaarTemporaryLiters float64 `json:"udhaarTemporaryLiters"`
	UdhaarTemporary       float64 `json:"udhaarTemporary"`
	OthersLiters          float64 `json:"othersLiters"`
	Others                float64 `json:"others"`
	TotalAmount           float64 `json:"totalAmount"`
	CreatedAt             string  `json:"createdAt,omitempty"`
	UpdatedAt             string  `json:"updatedAt,omitempty"`
}

// MarshalJSON renders the flat camelCase shape used by the API and JSON backups.
// FromRecord accepts the same shape back.
func (e Entry) MarshalJSON() ([]byte, error) {
	p := e.Payments
	out := entryJSON{
		ID:                    e.ID,
		Date:                  FormatDate(e.Date),
		MachineID:             e.MachineID,
		MachineName:           e.MachineName,
		MachineLocation:       e.MachineLocation,
		Shift:                 e.Shift,
		TotalMilkLoaded:       e.TotalMilkLoaded,
		DistributedMilk:       e.DistributedMilk,
		LeftoverMilk:          e.LeftoverMilk,
		CashLiters:            p[Cash].Liters,
		Cash:                  p[Cash].Amount,
		UpiLiters:             p[UPI].Liters,
		Upi:                   p[UPI].Amount,
		CardLiters:            p[Card].Liters,
		Card:                  p[Card].Amount,
		UdhaarPermanentLiters: p[UdhaarPermanent].Liters,
		UdhaarPermanent:       p[UdhaarPermanent].Amount,
		UdhaarTemporaryLiters: p[UdhaarTemporary].Liters,
		UdhaarTemporary:       p[UdhaarTemporary].Amount,
		OthersLiters:          p[Others].Liters,
		Others:                p[Others].Amount,
		TotalAmount:           e.TotalAmount,
	}
	if !e.CreatedAt.IsZero() {
		out.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	if !e.UpdatedAt.IsZero() {
		out.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
	}
	return json.Marshal(out)
}
