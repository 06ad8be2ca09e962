// vmautomation - CLI tool for creating, cloning and managing virtual
// machines in VMware vCenter / ESXi from JSON records.
package main

import (
	"fmt"
	"os"

	"github.com/Bibi40k/vmware-vm-automation/configs"
	"github.com/spf13/cobra"
)

var (
	flagHost     string
	flagPort     int
	flagUsername string
	flagPassword string
	flagInsecure bool
	flagDebug    bool
	flagLogFile  string

	flagJSONFile string
	flagVMName   string
)

var rootCmd = &cobra.Command{
	Use:           "vmautomation",
	Short:         "Create, clone and manage virtual machines in VMware vCenter / ESXi",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var createCmd = &cobra.Command{
	Use:           "create",
	Short:         "Create a virtual machine from a JSON record",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(flagJSONFile)
	},
}

var cloneCmd = &cobra.Command{
	Use:           "clone",
	Short:         "Clone a virtual machine from a template using a JSON record",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClone(flagJSONFile)
	},
}

var deleteCmd = &cobra.Command{
	Use:           "delete",
	Short:         "Delete a virtual machine",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(flagVMName)
	},
}

var resetCmd = &cobra.Command{
	Use:           "reset",
	Short:         "Reset a virtual machine",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReset(flagVMName)
	},
}

var powerOnCmd = &cobra.Command{
	Use:           "power-on",
	Short:         "Power on a virtual machine",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPowerOn(flagVMName)
	},
}

var powerOffCmd = &cobra.Command{
	Use:           "power-off",
	Short:         "Power off a virtual machine",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPowerOff(flagVMName)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "vCenter or ESXi hostname or IP")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", configs.Defaults.VCenter.Port, "Server port")
	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "Login username")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Login password (prompted when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&flagInsecure, "disable-ssl-verification", "s", false,
		"Skip TLS certificate verification")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&flagLogFile, "log-file", "l", "", "Write logs to file instead of the console")
	_ = rootCmd.MarkPersistentFlagRequired("host")
	_ = rootCmd.MarkPersistentFlagRequired("username")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(powerOnCmd)
	rootCmd.AddCommand(powerOffCmd)

	for _, cmd := range []*cobra.Command{createCmd, cloneCmd} {
		cmd.Flags().StringVar(&flagJSONFile, "json-file", "", "JSON file containing all VM data")
		_ = cmd.MarkFlagRequired("json-file")
	}
	for _, cmd := range []*cobra.Command{deleteCmd, resetCmd, powerOnCmd, powerOffCmd} {
		cmd.Flags().StringVar(&flagVMName, "vm-name", "", "Name of the virtual machine")
		_ = cmd.MarkFlagRequired("vm-name")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		const (
			red   = "\033[31m"
			reset = "\033[0m"
		)
		fmt.Fprintf(os.Stderr, "%sError:%s %v\n", red, reset, err)
		os.Exit(1)
	}
}
