package mapping

import (
	"fmt"
)

// Sheet names of the input workbook.
const (
	SheetProducers       = "Producers"
	SheetContracts       = "Contracts"
	SheetProductionCosts = "Production Costs"
)

// Sheet names of the solution workbook.
const (
	SheetProducerAllocation = "Allocation per Producer"
	SheetContractAllocation = "Contract Allocation"
)

// Model identifiers.
const (
	IdentProducer                  = "i_producer"
	IdentContract                  = "i_contract"
	IdentAvailableCapacity         = "p_availableCapacity"
	IdentMinimalDelivery           = "p_minimalDelivery"
	IdentMinimumContractFulfilment = "p_minimumContractFulfillment"
	IdentMaximumContractFulfilment = "p_maximumContractFulfillment"
	IdentMinimalContributors       = "p_minimalNumberofContributors"
	IdentProductionCost            = "p_productionCost"
	IdentProducerExport            = "i_producerExport"
	IdentContractExport            = "i_contractExport"
	IdentGeneration                = "p_generation"
	IdentTotalGeneration           = "p_totalGeneration"
)

// Display labels written to the solution workbook.
const (
	LabelProducer        = "Producer"
	LabelContract        = "Contract"
	LabelGeneration      = "Generation"
	LabelTotalGeneration = "Total Generation"
)

// ModelVocabulary holds every identifier the bridge exchanges with the model.
var ModelVocabulary = NewVocabulary(
	IdentProducer,
	IdentContract,
	IdentAvailableCapacity,
	IdentMinimalDelivery,
	IdentMinimumContractFulfilment,
	IdentMaximumContractFulfilment,
	IdentMinimalContributors,
	IdentProductionCost,
	IdentProducerExport,
	IdentContractExport,
	IdentGeneration,
	IdentTotalGeneration,
)

// Input mappings: spreadsheet label -> model identifier.
var (
	Producers = MustNew(
		Pair{"Producers", IdentProducer},
		Pair{"Available Capacity", IdentAvailableCapacity},
		Pair{"Minimal Delivery", IdentMinimalDelivery},
	)
	Contracts = MustNew(
		Pair{"Contracts", IdentContract},
		Pair{"Minimum Contract Size", IdentMinimumContractFulfilment},
		Pair{"Maximum Contract Size", IdentMaximumContractFulfilment},
		Pair{"Minimal Number of Contributors", IdentMinimalContributors},
	)
	ProductionCosts = MustNew(
		Pair{"Producers", IdentProducer},
		Pair{"Contracts", IdentContract},
		Pair{"Production Cost", IdentProductionCost},
	)
)

// Output mappings: model identifier -> display label.
var (
	ProducerAllocation = MustNew(
		Pair{IdentProducerExport, LabelProducer},
		Pair{IdentContractExport, LabelContract},
		Pair{IdentGeneration, LabelGeneration},
	)
	ContractAllocation = MustNew(
		Pair{IdentContractExport, LabelContract},
		Pair{IdentTotalGeneration, LabelTotalGeneration},
	)
)

// InputSpec ties an input sheet to its mapping. The sheet name doubles as the
// table name handed to the model.
type InputSpec struct {
	Sheet   string
	Mapping ColumnMapping
}

// OutputSpec ties a solution sheet to the identifiers retrieved for it.
type OutputSpec struct {
	Sheet   string
	Mapping ColumnMapping
}

// Identifiers returns the model identifiers to retrieve, in column order.
func (o OutputSpec) Identifiers() []string {
	return o.Mapping.Sources()
}

var inputs = []InputSpec{
	{Sheet: SheetProducers, Mapping: Producers},
	{Sheet: SheetContracts, Mapping: Contracts},
	{Sheet: SheetProductionCosts, Mapping: ProductionCosts},
}

var outputs = []OutputSpec{
	{Sheet: SheetProducerAllocation, Mapping: ProducerAllocation},
	{Sheet: SheetContractAllocation, Mapping: ContractAllocation},
}

// Inputs lists the input sheets in submission order.
func Inputs() []InputSpec {
	out := make([]InputSpec, len(inputs))
	copy(out, inputs)
	return out
}

// Outputs lists the solution sheets in write order.
func Outputs() []OutputSpec {
	out := make([]OutputSpec, len(outputs))
	copy(out, outputs)
	return out
}

// InputSheets returns the required input sheet names.
func InputSheets() []string {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = in.Sheet
	}
	return out
}

func init() {
	if err := checkDeclared(); err != nil {
		panic(err)
	}
}

// checkDeclared verifies that every declared mapping only names vocabulary identifiers.
func checkDeclared() error {
	for _, in := range inputs {
		if err := ModelVocabulary.Check(in.Mapping.Destinations()...); err != nil {
			return fmt.Errorf("input mapping %q: %w", in.Sheet, err)
		}
	}
	for _, out := range outputs {
		if err := ModelVocabulary.Check(out.Identifiers()...); err != nil {
			return fmt.Errorf("output mapping %q: %w", out.Sheet, err)
		}
	}
	return nil
}
