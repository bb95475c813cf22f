package payroll

// CreateSlipDTO is the request payload for issuing a salary slip. Bonus and
// deductions default to zero when omitted.
type CreateSlipDTO struct {
	UserID     int64   `json:"user_id"`
	Month      string  `json:"month"`
	BaseSalary float64 `json:"base_salary"`
	Bonus      float64 `json:"bonus"`
	Deductions float64 `json:"deductions"`
}

func (dto CreateSlipDTO) Validate() error {
	if !ValidMonth(dto.Month) {
		return ErrInvalidMonth
	}
	if dto.BaseSalary < 0 {
		return ErrNegativeBase
	}
	return nil
}

// UpdateSlipDTO carries a partial update; nil fields keep their stored values.
type UpdateSlipDTO struct {
	Month      *string  `json:"month"`
	BaseSalary *float64 `json:"base_salary"`
	Bonus      *float64 `json:"bonus"`
	Deductions *float64 `json:"deductions"`
}

// Validate re-checks every field present in the payload.
func (dto UpdateSlipDTO) Validate() error {
	if dto.Month != nil && !ValidMonth(*dto.Month) {
		return ErrInvalidMonth
	}
	if dto.BaseSalary != nil && *dto.BaseSalary < 0 {
		return ErrNegativeBase
	}
	return nil
}
