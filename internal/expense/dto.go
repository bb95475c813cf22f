package expense

// SubmitExpenseDTO is the request payload for submitting an expense.
// Description is optional.
type SubmitExpenseDTO struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func (dto SubmitExpenseDTO) Validate() error {
	if dto.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
