// Package dataprocessing turns a postcode list into a wide table of census
// variables keyed by postcode group and output area.
//
// # Stages
//
//	load       LoadTable + NewAreaMapping / NewTargetPostalCodeList / NewVariableTable
//	resolve    ResolveAreas: left join on the normalized postcode
//	aggregate  GroupPostcodes: one AreaGroup per resolved area
//	pivot      PivotVariables: long to wide per variable, plus suppressed-area detection
//	combine    CombineTables: outer alignment on (postcodes, area)
//	header     BuildHeader: two-level header parallel to the columns
//
// Every stage returns a new value. Missing data (unresolved or suppressed
// postcodes) is part of the Result, never an error. A DataIntegrityError,
// PivotConflictError or HeaderMismatchError aborts the run.
//
// # Usage
//
//	p := dataprocessing.NewPipeline(opts, runner, logger)
//	in, err := p.Load(ctx, files)
//	if err != nil {
//	    return err
//	}
//	res, err := p.Run(ctx, in)
package dataprocessing
