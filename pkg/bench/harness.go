package bench

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/transitivedelegationvc/delegation/pkg/directory"
	"github.com/transitivedelegationvc/delegation/pkg/schemea"
	"github.com/transitivedelegationvc/delegation/pkg/schemeb"
)

// Config parameterizes one benchmark run: a chain of Delegators delegators,
// each issuing a permission set of size Permissions narrowing by one at
// every step, repeated Iterations times.
type Config struct {
	Delegators  int
	Permissions int
	Iterations  int
}

const validityPeriodNs = "3600000000000000" // 1000 hours, generous headroom for slow runs

func nowNs() string { return strconv.FormatInt(time.Now().UnixNano(), 10) }

// Run executes Config against both schemes and returns every measured row.
func Run(cfg Config) ([]Row, error) {
	var rows []Row

	aRows, err := runSchemeA(cfg)
	if err != nil {
		return nil, err
	}
	rows = append(rows, aRows...)

	bRows, err := runSchemeB(cfg)
	if err != nil {
		return nil, err
	}
	rows = append(rows, bRows...)

	return rows, nil
}

func permissionSet(n int) []string {
	perms := make([]string, n)
	for i := range perms {
		perms[i] = fmt.Sprintf("p%d", i)
	}
	return perms
}

func runSchemeA(cfg Config) ([]Row, error) {
	const scenario = "scheme_a"
	dir := directory.NewDirectoryA()

	issuers := make([]*schemea.Issuer, cfg.Delegators+1)
	for i := range issuers {
		iss, err := schemea.NewIssuer(fmt.Sprintf("did:bench:a:%d", i), dir)
		if err != nil {
			return nil, err
		}
		issuers[i] = iss
	}

	var issueNs, presentNs, verifyNs, vpBytes float64

	for iter := 0; iter < cfg.Iterations; iter++ {
		var chain *schemea.VC
		issueStart := time.Now()
		for level := 0; level < cfg.Delegators; level++ {
			grant := cfg.Permissions - level
			if grant < 1 {
				grant = 1
			}
			vc, err := issuers[level].Issue(
				uuid.New().String(), "1000",
				fmt.Sprintf("did:bench:a:%d", level+1), nowNs(), validityPeriodNs,
				permissionSet(grant), chain,
			)
			if err != nil {
				return nil, err
			}
			chain = &vc
		}
		issueNs += float64(time.Since(issueStart).Nanoseconds())

		holder := issuers[cfg.Delegators]
		presentStart := time.Now()
		jws, err := holder.Present(*chain, []string{"p0"})
		if err != nil {
			return nil, err
		}
		presentNs += float64(time.Since(presentStart).Nanoseconds())
		vpBytes += float64(len(jws))

		verifyStart := time.Now()
		if _, err := schemea.Verify(fmt.Sprintf("did:bench:a:%d", cfg.Delegators), jws, nowNs(), dir, true); err != nil {
			return nil, err
		}
		verifyNs += float64(time.Since(verifyStart).Nanoseconds())
	}

	n := float64(cfg.Iterations)
	return []Row{
		{Scenario: scenario, Metric: "vc_issue_chain", Value: issueNs / n, Unit: "ns"},
		{Scenario: scenario, Metric: "vp_present", Value: presentNs / n, Unit: "ns"},
		{Scenario: scenario, Metric: "vp_verify", Value: verifyNs / n, Unit: "ns"},
		{Scenario: scenario, Metric: "vp_size", Value: vpBytes / n, Unit: "bytes"},
	}, nil
}

func runSchemeB(cfg Config) ([]Row, error) {
	const scenario = "scheme_b"
	dir := directory.NewDirectoryB()

	issuers := make([]*schemeb.Issuer, cfg.Delegators+1)
	for i := range issuers {
		iss, err := schemeb.NewIssuer(fmt.Sprintf("did:bench:b:%d", i), dir)
		if err != nil {
			return nil, err
		}
		issuers[i] = iss
	}
	owner := issuers[0]
	ownerID := "did:bench:b:0"

	var issueNs, presentNs, verifyNs, vpBytes float64

	for iter := 0; iter < cfg.Iterations; iter++ {
		var chain *schemeb.VC
		issueStart := time.Now()
		for level := 0; level < cfg.Delegators; level++ {
			grant := cfg.Permissions - level
			if grant < 1 {
				grant = 1
			}
			vc, err := issuers[level].Issue(
				uuid.New().String(), "1000",
				fmt.Sprintf("did:bench:b:%d", level+1), ownerID, "https://bench.example/doc",
				nowNs(), validityPeriodNs, permissionSet(grant), chain, dir,
			)
			if err != nil {
				return nil, err
			}
			chain = &vc
		}
		issueNs += float64(time.Since(issueStart).Nanoseconds())

		// scheme B's outer delegator signature is checked against its own
		// "iss", so the presenter must be the outermost credential's issuer,
		// not its delegatee (spec.md §4.9 / the original's
		// issue_delegation_verifiable_presentation).
		outerIssuer := issuers[cfg.Delegators-1]
		presentStart := time.Now()
		jws, err := outerIssuer.Present(*chain, []string{"p0"})
		if err != nil {
			return nil, err
		}
		presentNs += float64(time.Since(presentStart).Nanoseconds())
		vpBytes += float64(len(jws))

		verifyStart := time.Now()
		if _, err := schemeb.Verify(ownerID, fmt.Sprintf("did:bench:b:%d", cfg.Delegators-1), jws, nowNs(),
			owner.DecryptKey(), dir, 0); err != nil {
			return nil, err
		}
		verifyNs += float64(time.Since(verifyStart).Nanoseconds())
	}

	n := float64(cfg.Iterations)
	return []Row{
		{Scenario: scenario, Metric: "vc_issue_chain", Value: issueNs / n, Unit: "ns"},
		{Scenario: scenario, Metric: "vp_present", Value: presentNs / n, Unit: "ns"},
		{Scenario: scenario, Metric: "vp_verify", Value: verifyNs / n, Unit: "ns"},
		{Scenario: scenario, Metric: "vp_size", Value: vpBytes / n, Unit: "bytes"},
	}, nil
}
