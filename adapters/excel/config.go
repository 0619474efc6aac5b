package excel

// ExcelConfig holds configuration for the workbook adapters
type ExcelConfig struct {
	OutputFind     string         `json:"output_find"`
	OutputReplace  string         `json:"output_replace"`
	CoercionConfig CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns the defaults used by the allocation run:
// DefaultData.xlsx is answered with DefaultData_Solution.xlsx.
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		OutputFind:     "Data",
		OutputReplace:  "Data_Solution",
		CoercionConfig: DefaultCoercionConfig(),
	}
}
