package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jdgilhuly/agent_evals/pkg/config"
	"github.com/jdgilhuly/agent_evals/pkg/dataset"
)

func runInit(cmd *cobra.Command, args []string) error {
	for _, d := range []string{"data", "results"} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
		fmt.Printf("  created %s/\n", d)
	}

	if err := writeConfigFile("agenteval.yaml"); err != nil {
		return err
	}
	if err := writeFileOnce(filepath.Join("data", dataset.KindHandoff.Filename()), routingDatasetCSV); err != nil {
		return err
	}
	if err := writeFileOnce(filepath.Join("data", dataset.KindToolCall.Filename()), toolCallDatasetCSV); err != nil {
		return err
	}

	fmt.Println("\nProject initialized. Run 'agenteval validate' to check the setup.")
	return nil
}

func writeConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  skipped %s (already exists)\n", path)
		return nil
	}

	out, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("  created %s\n", path)
	return nil
}

func writeFileOnce(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  skipped %s (already exists)\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("  created %s\n", path)
	return nil
}

const routingDatasetCSV = `case_id,message,target
r01,Transfer $200 from checking to savings,Operational
r02,Pay my electric bill of $120 to City Power,Operational
r03,Update my mailing address to 44 Elm Street,Operational
r04,Set up an automatic transfer of $50 every payday,Operational
r05,What are your branch hours on Saturday?,Informational
r06,What fees come with the premium checking account?,Informational
r07,How do I apply for a mortgage?,Informational
r08,Does online banking support mobile check deposit?,Informational
r09,Help me build a monthly budget,FinancialCoach
r10,What's the best strategy to pay off my credit card debt?,FinancialCoach
r11,How much should I be saving for retirement?,FinancialCoach
r12,I want advice on setting financial goals for next year,FinancialCoach
`

const toolCallDatasetCSV = `case_id,message,target
t01,Move $300 from my checking account to my savings account,transfer_funds
t02,Send $150 from savings to my brokerage account,transfer_funds
t03,"Transfer $1,000 to account 8831 from account 2204",transfer_funds
t04,Pay $95 to Metro Water for this month's bill,pay_bill
t05,Pay my $60 internet bill to ComNet,pay_bill
t06,Pay my landlord Jane Doe $800 for rent,pay_bill
t07,Change my phone number to 555-0142,update_account_info
t08,Update my email address to sam@example.com,update_account_info
t09,"My new address is 9 Birch Lane, Portland",update_account_info
t10,What is a routing number?,None
`
