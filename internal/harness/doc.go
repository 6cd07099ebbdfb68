// Package harness runs rainbow table generation scenarios as conformance
// tests.
//
// A scenario describes the wordlists, the hash chain and the output kind of
// one generation run, plus assertions over the resulting table. The harness
// writes the wordlists to a scratch directory, runs engine.Generate with a
// fixed run id and reads the table back.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: salted_md5
//	description: "What this scenario validates"
//	settings:
//	  algorithm: md5
//	  iterations: 2
//	  prefix: "s4lt"
//	  salt_first_round_only: true
//	output: flat            # or keyed
//	workers: 1              # 1 = single mode, >1 = parallel
//	wordlists:
//	  - name: words.txt
//	    lines: [password, admin]
//	  - name: latin1.txt
//	    hex: "636166e90a"   # raw bytes, for non UTF-8 input
//	  - name: gone.txt
//	    missing: true
//	expect_error: CONFIG_ERROR   # optional: Generate must fail with this code
//	assertions:
//	  - type: pair_present
//	    digest: 5f4dcc3b5aa765d61d8327deb882cf99
//	    plaintext: password
//	  - type: pair_count
//	    count: 2
//
// # Assertion Types
//
//   - pair_present: the table holds the (digest, plaintext) row
//   - pair_absent: no row has the plaintext
//   - pair_count: the table holds exactly count rows
//   - lookup: the digest maps to exactly plaintexts, in table order
//   - file_failed: the named wordlist ended with an error
//   - decode_errors: exactly count lines were skipped in total
//
// # Golden Files
//
// RunWithGolden snapshots the table (sorted for parallel scenarios) and the
// per-file outcome into testdata/golden/{name}.golden.
package harness
