package emitter

import (
	"fmt"

	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

func writeParameters(w *writer, in *Input, opts Options) error {
	w.line("#+-------------------------------------------------------------------------------")
	w.line("# The following parameters are assigned with default values. These parameters can")
	w.line("# be overridden through the make command line")
	w.line("#+-------------------------------------------------------------------------------")
	w.blank()
	w.line("# Run Target:")
	w.line("#   hw  - Compile for hardware")
	w.line("#   sw_emu/hw_emu - Compile for software/hardware emulation")
	w.line("# FPGA Board Platform (Default ~ ku115)")
	w.blank()
	w.line("# Points to Utility Directory")
	w.line("COMMON_REPO = ", opts.CommonRepo)
	w.line("ABS_COMMON_REPO = $(shell readlink -f $(COMMON_REPO))")
	w.blank()
	w.line("include ./utils.mk")
	w.line("REPORT := no")
	w.line("PROFILE := no")
	w.line("DEBUG := no")
	w.blank()
	w.line("TARGETS := hw")
	w.line("TARGET := $(TARGETS)")
	w.line("DEVICES := ", in.Description.Device(opts.DefaultDevice))
	w.line("DEVICE := $(DEVICES)")
	w.line("XCLBIN := ./xclbin")
	w.line("DSA := $(call device2sandsa, $(DEVICE))")
	w.blank()
	w.line("CXX := $(XILINX_SDX)/bin/xcpp")
	w.line("XOCC := $(XILINX_SDX)/bin/xocc")
	w.blank()
	w.line("CXXFLAGS := $(opencl_CXXFLAGS) -Wall -O0 -g -std=c++14")
	w.line("LDFLAGS := $(opencl_LDFLAGS)")
	w.blank()
	return nil
}

func writeHostFlags(w *writer, _ *Input, _ Options) error {
	w.line("HOST_SRCS = src/host.cpp")
	w.blank()
	w.line("# Host compiler global settings")
	w.line("CXXFLAGS = -I $(XILINX_SDX)/runtime/include/1_2/ -I/$(XILINX_SDX)/Vivado_HLS/include/ -O0 -g -Wall -fmessage-length=0 -std=c++14")
	w.line("LDFLAGS = -lOpenCL -lpthread -lrt -lstdc++ -L$(XILINX_SDX)/runtime/lib/x86_64")
	w.blank()
	return nil
}

func writeKernelFlags(w *writer, in *Input, _ Options) error {
	d := in.Description
	accs := d.AllAccelerators()

	w.line("# Kernel compiler global settings")
	w.line("CLFLAGS = -t $(TARGET) --platform $(DEVICE) --save-temps")
	w.line(`CLFLAGS += --xp "param:compiler.preserveHlsOutput=1" --xp "param:compiler.generateExtraRunData=true"`)
	for _, acc := range accs {
		if acc.MaxMemoryPorts {
			w.line("CLFLAGS += --max_memory_ports ", acc.Name)
		}
	}
	for _, acc := range accs {
		if acc.CLFlags == "" {
			continue
		}
		flag, value, ok := acc.CLFlag()
		if !ok {
			return fmt.Errorf("accelerator %s: clflags %q must be one flag and one value", acc.Name, acc.CLFlags)
		}
		w.linef(`CLFLAGS += %s "%s"`, flag, value)
	}
	if d.Compiler != nil && d.Compiler.Options != "" {
		w.line("CXXFLAGS += ", d.Compiler.Options)
	}
	w.blank()

	w.line("#'estimate' for estimate report generation")
	w.line("#'system' for system report generation")
	w.line("ifneq ($(REPORT), no)")
	w.line("CLFLAGS += --report estimate")
	w.line("LDCLFLAGS += --report system")
	w.line("endif")
	w.blank()
	w.line("#Generates profile summary report")
	w.line("ifeq ($(PROFILE), yes)")
	w.line("CLFLAGS += --profile_kernel data:all:all:all")
	w.line("endif")
	w.blank()
	w.line("#Generates debug summary report")
	w.line("ifeq ($(DEBUG), yes)")
	w.line("CLFLAGS += --dk protocol:all:all:all")
	w.line("endif")
	w.blank()
	w.line("EXECUTABLE = host")
	w.blank()
	return nil
}

func writeDeclarations(w *writer, in *Input, _ Options) error {
	plan := in.Plan
	if len(plan.Bins) == 0 {
		return nil
	}
	// Under the per-container layout an object is listed once per bucket.
	dedupe := plan.Layout == core.LayoutPerContainer
	inBucket := make(map[string]bool)
	inAll := make(map[string]bool)

	for _, bin := range plan.Bins {
		w.line("BINARY_CONTAINERS += ", bin.Target())
		for _, k := range bin.Kernels {
			obj := k.ObjectTarget()
			key := bin.Bucket + "\x00" + obj
			if !dedupe || !inBucket[key] {
				w.line(bin.Bucket, " += ", obj)
				inBucket[key] = true
			}
			if !dedupe || !inAll[obj] {
				w.line("ALL_KERNEL_OBJS += ", obj)
				inAll[obj] = true
			}
		}
	}
	w.blank()
	return nil
}

func writeLibraries(w *writer, in *Input, _ Options) error {
	w.line("#Include Libraries")
	w.line("include $(ABS_COMMON_REPO)/libs/opencl/opencl.mk")
	if len(in.Libraries) > 0 {
		var cxx, ld, srcs []string
		for _, lib := range in.Libraries {
			w.line("include ", lib.Fragment)
			cxx = append(cxx, lib.CXXFlagsVar)
			ld = append(ld, lib.LDFlagsVar)
			srcs = append(srcs, lib.SourcesVar)
		}
		w.line("CXXFLAGS +=", vars(cxx))
		w.line("LDFLAGS +=", vars(ld))
		w.line("HOST_SRCS +=", vars(srcs))
	}
	w.blank()
	return nil
}

func writePhony(w *writer, in *Input, _ Options) error {
	usesData := in.Description.UsesDataDir()

	w.line("CP = cp -rf")
	if usesData {
		w.line("DATA = ./data")
	}
	w.blank()
	w.line(".PHONY: all clean cleanall docs")
	w.line("all: $(EXECUTABLE) $(BINARY_CONTAINERS)")
	if usesData {
		w.line("\t- if test -d $(DATA); then $(CP) $(DATA) $(BUILD_DIR)/sd_card/; fi")
	}
	w.blank()
	w.line(".PHONY: exe")
	w.line("exe: $(EXECUTABLE)")
	w.blank()
	return nil
}

func writeKernelRules(w *writer, in *Input, _ Options) error {
	rs := in.Rules
	w.line("# Building kernel")
	for _, r := range rs.Compile {
		w.WriteString(r.String())
	}
	if len(rs.Compile) > 0 {
		w.blank()
	}
	for _, r := range rs.Link {
		w.WriteString(r.String())
	}
	if len(rs.Link) > 0 {
		w.blank()
	}
	return nil
}

func writeHostRule(w *writer, _ *Input, _ Options) error {
	w.line("# Building Host")
	w.line("$(EXECUTABLE): $(HOST_SRCS)")
	w.line("\tmkdir -p $(XCLBIN)")
	w.line("\t$(CXX) $(CXXFLAGS) $(HOST_SRCS) -o '$@' $(LDFLAGS)")
	w.blank()
	return nil
}

func writeCheck(w *writer, in *Input, _ Options) error {
	d := in.Description
	w.line("check: all")
	w.line("ifeq ($(TARGET),$(filter $(TARGET),sw_emu hw_emu))")
	w.line("\temconfigutil --platform $(DEVICE) --od .")
	w.WriteString("\tXCL_EMULATION_MODE=$(TARGET) ./$(EXECUTABLE)")
	for _, arg := range d.EmulationArgs() {
		w.WriteString(" " + arg)
	}
	w.blank()
	w.line("\tsdx_analyze profile -i sdaccel_profile_summary.csv -f html")
	w.line("endif")
	w.blank()

	for _, mode := range d.Targets {
		w.line("#Reporting warning if not targeting for Targets")
		w.linef("ifneq (%s,$(findstring %s,$(TARGET)))", mode, mode)
		w.linef("\t$(warning WARNING:Application supports only %s TARGET. Please use the target for running the application)", mode)
		w.line("endif")
		w.blank()
	}
	return nil
}

func writeClean(w *writer, _ *Input, _ Options) error {
	w.line("# Cleaning stuff")
	w.line("RM = rm -f")
	w.line("RMDIR = rm -rf")
	w.line("clean:")
	w.line("\t-$(RMDIR) $(EXECUTABLE) $(XCLBIN)/{*sw_emu*,*hw_emu*}")
	w.line("\t-$(RMDIR) sdaccel_* TempConfig system_estimate.xtxt *.rpt")
	w.line("\t-$(RMDIR) src/*.ll _xocc_* .Xil emconfig.json dltmp* xmltmp* *.log *.jou *.wcfg *.wdb")
	w.blank()
	w.line("cleanall: clean")
	w.line("\t-$(RMDIR) $(XCLBIN)")
	w.line("\t-$(RMDIR) ./_x")
	w.blank()
	return nil
}

// helpEntries are the usage lines of the help target, paired with their descriptions.
var helpEntries = [][2]string{
	{"make all TARGET=<sw_emu/hw_emu/hw> DEVICE=<FPGA platform>", "Command to generate the design for specified Target and Device."},
	{"make clean ", "Command to remove the generated non-hardware files."},
	{"make cleanall", "Command to remove all the generated files."},
	{"make check TARGET=<sw_emu/hw_emu/hw> DEVICE=<FPGA platform>", "Command to run application in emulation."},
}

func writeHelp(w *writer, _ *Input, _ Options) error {
	w.line("ECHO:= @echo")
	w.blank()
	w.line(".PHONY: help")
	w.blank()
	w.line("help::")
	w.line(`	$(ECHO) "Makefile Usage:"`)
	for _, e := range helpEntries {
		w.linef(`	$(ECHO) "  %s"`, e[0])
		w.linef(`	$(ECHO) "      %s"`, e[1])
		w.line(`	$(ECHO) ""`)
	}
	w.blank()
	return nil
}

func writeDocs(w *writer, _ *Input, opts Options) error {
	w.line("docs: README.md")
	w.blank()
	w.line("README.md: ", opts.DescriptionFile)
	w.line("\t$(ABS_COMMON_REPO)/utility/readme_gen/readme_gen.py ", opts.DescriptionFile)
	w.blank()
	return nil
}
