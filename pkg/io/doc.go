// Package io provides file import and export for grids.
//
// # Overview
//
// This package reads and writes grid content in three formats:
//
//   - CSV: comma-separated values, the common interchange format
//   - TSV: tab-separated values, the grid's native text serialization
//   - JSON: an explicit sparse cell list
//
// # Format Detection
//
// [ImportFile] and [ExportFile] pick the format from the file extension:
// .csv for CSV, .json for JSON, and anything else (.tsv, .txt) for TSV.
//
// # JSON Format
//
// The JSON format lists only filled cells, preserving sparseness:
//
//	{
//	  "cells": [
//	    {"row": 1, "col": 1, "text": "title"},
//	    {"row": 3, "col": 2, "text": "42"}
//	  ]
//	}
//
// Cells with invalid coordinates (row or col < 1) are rejected on import.
//
// # Round Trips
//
// TSV and JSON round-trip exactly, including empty rows between filled
// ones. CSV round-trips cell content but normalizes quoting and drops
// fully empty rows, because CSV readers skip blank lines.
package io
