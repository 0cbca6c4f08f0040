package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	vybiumhex0 "github.com/vybium/vybium-hex0/pkg/vybium-hex0"
)

const (
	defaultInputFile    = "./hex0_src/hex1_AMD64.hex0"
	defaultExpectedHash = "c264a212d2b0e1f1bcf34217ed7876bb9324bd7e29cd902bb1cad4d9f45f1cf8"
)

type options struct {
	execute      bool
	prove        bool
	inputFile    string
	expectedHash string
	outputProof  string
	outputHex1   string
	proofFile    string
	logLevel     string
	numQueries   int
	hashFunction string
}

var (
	opts options

	rootCmd = &cobra.Command{
		Use:           "vybium-hex0-prover",
		Short:         "Decode a hex0 source and attest the digest of the result",
		Example:       "vybium-hex0-prover --prove --output-proof hex1.receipt --output-hex1 hex1",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	verifyCmd = &cobra.Command{
		Use:     "verify",
		Short:   "Verify a receipt against a hex0 source and expected hash",
		Example: "vybium-hex0-prover verify --proof hex1.receipt",
		RunE:    runVerify,
	}

	vkeyCmd = &cobra.Command{
		Use:   "vkey",
		Short: "Print the digest identifying the guest program",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), vybiumhex0.ProgramDigest())
			return nil
		},
	}
)

func init() {
	def := vybiumhex0.DefaultConfig()

	rootCmd.PersistentFlags().StringVar(&opts.inputFile, "input-hex0-file", defaultInputFile, "The hex0 source to decode. This can also be specified through the HEX0_INPUT_FILE ENV var.")
	rootCmd.PersistentFlags().StringVar(&opts.expectedHash, "expected-hash", defaultExpectedHash, "The hex SHA-256 digest the decoded binary must have. This can also be specified through the HEX0_EXPECTED_HASH ENV var.")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", log.InfoLevel.String(), "The logging level. This can also be specified through the HEX0_LOG_LEVEL ENV var.")
	rootCmd.PersistentFlags().IntVar(&opts.numQueries, "queries", def.NumQueries, "Transitions sampled into a receipt (prove) or required of it (verify).")
	rootCmd.PersistentFlags().StringVar(&opts.hashFunction, "transcript-hash", def.HashFunction, "The Fiat-Shamir transcript hash: 'sha3' or 'sha256'.")

	rootCmd.Flags().BoolVar(&opts.execute, "execute", false, "Run the guest program and report its cycle count.")
	rootCmd.Flags().BoolVar(&opts.prove, "prove", false, "Generate and verify a receipt, then write it and the decoded binary.")
	rootCmd.Flags().StringVar(&opts.outputProof, "output-proof", "", "Where to write the receipt in prove mode. This can also be specified through the HEX0_OUTPUT_PROOF ENV var.")
	rootCmd.Flags().StringVar(&opts.outputHex1, "output-hex1", "", "Where to write the decoded binary in prove mode. This can also be specified through the HEX0_OUTPUT_HEX1 ENV var.")

	verifyCmd.Flags().StringVar(&opts.proofFile, "proof", "", "The receipt to verify. This can also be specified through the HEX0_PROOF ENV var.")

	if err := initFlagsFromEnv(); err != nil {
		log.WithError(err).Fatalf("Failed to update flags from ENV vars: %v", err)
	}
}

func main() {
	rootCmd.AddCommand(verifyCmd, vkeyCmd)

	if err := rootCmd.Execute(); err != nil {
		if vybiumhex0.IsHashMismatch(err) {
			log.WithError(err).Fatal("Hash mismatch")
		}
		log.WithError(err).Fatal("vybium-hex0-prover failed")
	}
}

func setupLogger(logLevelStr string) (log.FieldLogger, error) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "01-02-2006 15:04:05",
	})

	logLevel, err := log.ParseLevel(logLevelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %v", logLevelStr, err)
	}
	log.SetLevel(logLevel)

	return log.WithFields(log.Fields{
		"app": "vybium-hex0-prover",
	}), nil
}

func initFlagsFromEnv() error {
	flagEnvConf := []struct {
		flags *pflag.FlagSet
		env   map[string]string
	}{
		{
			flags: rootCmd.PersistentFlags(),
			env: map[string]string{
				"HEX0_INPUT_FILE":    "input-hex0-file",
				"HEX0_EXPECTED_HASH": "expected-hash",
				"HEX0_LOG_LEVEL":     "log-level",
			},
		},
		{
			flags: rootCmd.Flags(),
			env: map[string]string{
				"HEX0_OUTPUT_PROOF": "output-proof",
				"HEX0_OUTPUT_HEX1":  "output-hex1",
			},
		},
		{
			flags: verifyCmd.Flags(),
			env: map[string]string{
				"HEX0_PROOF": "proof",
			},
		},
	}

	for _, flagConf := range flagEnvConf {
		if err := mapEnvVarToFlag(flagConf.env, flagConf.flags); err != nil {
			return err
		}
	}
	return nil
}

// mapEnvVarToFlag takes a mapping of ENV var names to flag names and sets
// each flag whose ENV var is non-empty.
func mapEnvVarToFlag(vars map[string]string, flagset *pflag.FlagSet) error {
	for env, flag := range vars {
		flagObj := flagset.Lookup(flag)
		if flagObj == nil {
			return fmt.Errorf("the %s flag doesn't exist", flag)
		}

		if val := os.Getenv(env); val != "" {
			if err := flagObj.Value.Set(val); err != nil {
				return fmt.Errorf("failed to set the %s flag: %v", flag, err)
			}
		}
	}
	return nil
}

func (o options) config() *vybiumhex0.Config {
	return &vybiumhex0.Config{
		NumQueries:   o.numQueries,
		HashFunction: o.hashFunction,
	}
}

func loadInputs(o options) (vybiumhex0.PublicInputs, error) {
	src, err := os.ReadFile(o.inputFile)
	if err != nil {
		return vybiumhex0.PublicInputs{}, fmt.Errorf("failed to read input file: %w", err)
	}
	return vybiumhex0.NewPublicInputs(src, o.expectedHash)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if opts.execute == opts.prove {
		return fmt.Errorf("you must specify either --execute or --prove")
	}

	logger, err := setupLogger(opts.logLevel)
	if err != nil {
		return err
	}

	inputs, err := loadInputs(opts)
	if err != nil {
		return err
	}

	if opts.execute {
		return runExecute(cmd, logger, inputs)
	}
	return runProve(cmd, logger, inputs, opts)
}

func runExecute(cmd *cobra.Command, logger log.FieldLogger, inputs vybiumhex0.PublicInputs) error {
	record, err := vybiumhex0.EncodePublicInputs(inputs)
	if err != nil {
		return err
	}

	report, err := vybiumhex0.ExecuteRecord(record)
	if err != nil {
		return err
	}
	logger.WithFields(log.Fields{
		"source_bytes":   len(inputs.SourceBytes),
		"hex_digits":     report.Stats.HexDigits,
		"comment_bytes":  report.Stats.CommentBytes,
		"dropped_nibble": report.Stats.DroppedNibble,
	}).Debug("decode statistics")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Program executed successfully.")
	fmt.Fprintf(out, "Number of cycles: %d\n", report.Cycles)
	fmt.Fprintf(out, "Output: %d bytes, sha256 %s\n", len(report.Output), report.OutputDigest)
	return nil
}

func runProve(cmd *cobra.Command, logger log.FieldLogger, inputs vybiumhex0.PublicInputs, o options) error {
	if o.outputProof == "" {
		return fmt.Errorf("--output-proof is required with --prove")
	}
	if o.outputHex1 == "" {
		return fmt.Errorf("--output-hex1 is required with --prove")
	}

	prover, err := vybiumhex0.NewProver(o.config(), logger)
	if err != nil {
		return err
	}
	verifier, err := vybiumhex0.NewVerifier(o.config(), logger)
	if err != nil {
		return err
	}

	logger.Info("Generating receipt")
	receipt, err := prover.Prove(inputs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Successfully generated proof!")

	if err := verifier.Verify(receipt, inputs); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Successfully verified proof!")

	data, err := vybiumhex0.EncodeReceipt(receipt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.outputProof, data, 0644); err != nil {
		return fmt.Errorf("failed to save proof: %w", err)
	}

	hex1 := vybiumhex0.Decode(inputs.SourceBytes)
	if err := vybiumhex0.VerifyDigest(hex1, inputs.ExpectedHash); err != nil {
		return err
	}
	if err := writeExecutable(o.outputHex1, hex1); err != nil {
		return err
	}

	logger.WithField("path", o.outputHex1).Info("Wrote hex1 binary")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote hex1 binary to %s\n", o.outputHex1)
	return nil
}

// writeExecutable writes data and sets mode 0755 regardless of umask.
func writeExecutable(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0755); err != nil {
		return fmt.Errorf("failed to write hex1 output file: %w", err)
	}
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("failed to set executable permissions: %w", err)
	}
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	logger, err := setupLogger(opts.logLevel)
	if err != nil {
		return err
	}
	if opts.proofFile == "" {
		return fmt.Errorf("--proof is required")
	}

	inputs, err := loadInputs(opts)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(opts.proofFile)
	if err != nil {
		return fmt.Errorf("failed to read proof: %w", err)
	}
	receipt, err := vybiumhex0.DecodeReceipt(data)
	if err != nil {
		return err
	}

	verifier, err := vybiumhex0.NewVerifier(opts.config(), logger)
	if err != nil {
		return err
	}
	if err := verifier.Verify(receipt, inputs); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Successfully verified proof!")
	return nil
}
