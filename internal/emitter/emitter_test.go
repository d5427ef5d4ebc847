package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kameshwarc/SDAccel-Examples/internal/description"
	"github.com/kameshwarc/SDAccel-Examples/internal/libs"
	"github.com/kameshwarc/SDAccel-Examples/internal/resolver"
	"github.com/kameshwarc/SDAccel-Examples/internal/rules"
	"github.com/kameshwarc/SDAccel-Examples/internal/testutil"
	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

func emit(t *testing.T, input string, layout core.Layout, registry *libs.Registry, opts Options) string {
	t.Helper()
	d, err := description.Parse([]byte(input), description.FormatJSON)
	require.NoError(t, err)
	plan, err := resolver.Resolve(d, layout)
	require.NoError(t, err)
	rs, err := rules.Build(plan)
	require.NoError(t, err)
	if registry == nil {
		registry = libs.Builtin()
	}
	libraries, err := registry.Resolve(d.Libs)
	require.NoError(t, err)
	if opts.Logger == nil {
		opts.Logger = testutil.NewTestLogger(t)
	}
	out, err := Emit(d, plan, rs, libraries, opts)
	require.NoError(t, err)
	return string(out)
}

func TestEmit_FlatScenario(t *testing.T) {
	out := emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}]}`, core.LayoutLegacy, nil, Options{})

	assert.Contains(t, out, "BINARY_CONTAINERS += $(XCLBIN)/k1.$(TARGET).$(DSA).xclbin\n")
	assert.Contains(t, out, "BINARY_CONTAINER_1_OBJS += $(XCLBIN)/k1.$(TARGET).$(DSA).xo\n")
	assert.Contains(t, out, "ALL_KERNEL_OBJS += $(XCLBIN)/k1.$(TARGET).$(DSA).xo\n")
	assert.Contains(t, out, "$(XCLBIN)/k1.$(TARGET).$(DSA).xo: ./src/k1.cl\n"+
		"\tmkdir -p $(XCLBIN)\n"+
		"\t$(XOCC) $(CLFLAGS) -c -k k1 -I'$(<D)' -o'$@' '$<'\n")
	assert.Contains(t, out, "$(XCLBIN)/k1.$(TARGET).$(DSA).xclbin: $(BINARY_CONTAINER_1_OBJS)\n"+
		"\t$(XOCC) $(CLFLAGS) -l $(LDCLFLAGS) --nk k1:1 -o'$@' $(+)\n")
	assert.Contains(t, out, "DEVICES := "+core.DefaultDevice+"\n")
	assert.Contains(t, out, "COMMON_REPO = ../../../\n")
}

func TestEmit_TwoContainerScenario(t *testing.T) {
	out := emit(t, `{"containers":[
		{"name":"c1","accelerators":[{"name":"a1","location":"s/a1.cl"}]},
		{"name":"c2","accelerators":[{"name":"a2","location":"s/a2.cl"}]}]}`,
		core.LayoutLegacy, nil, Options{})

	assert.Contains(t, out, "BINARY_CONTAINER_c1_OBJS += $(XCLBIN)/c1.$(TARGET).$(DSA).xo\n")
	assert.Contains(t, out, "BINARY_CONTAINER_c2_OBJS += $(XCLBIN)/c2.$(TARGET).$(DSA).xo\n")
	assert.Contains(t, out, "BINARY_CONTAINERS += $(XCLBIN)/c1.$(TARGET).$(DSA).xclbin\n")
	assert.Contains(t, out, "BINARY_CONTAINERS += $(XCLBIN)/c2.$(TARGET).$(DSA).xclbin\n")
	assert.Contains(t, out, "$(XCLBIN)/c1.$(TARGET).$(DSA).xclbin: $(BINARY_CONTAINER_c1_OBJS)\n")
	assert.Contains(t, out, "$(XCLBIN)/c2.$(TARGET).$(DSA).xclbin: $(BINARY_CONTAINER_c2_OBJS)\n")
	assert.NotContains(t, out, "BINARY_CONTAINER_1_OBJS")
}

func TestEmit_LibraryScenario(t *testing.T) {
	registry := libs.Builtin()
	require.NoError(t, registry.Register(libs.Library{Name: "xdma"}))

	out := emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}],"libs":["xdma","xcl2"]}`,
		core.LayoutLegacy, registry, Options{})

	assert.Contains(t, out, "include $(ABS_COMMON_REPO)/libs/opencl/opencl.mk\n"+
		"include $(ABS_COMMON_REPO)/libs/xdma/xdma.mk\n"+
		"include $(ABS_COMMON_REPO)/libs/xcl2/xcl2.mk\n")
	assert.Contains(t, out, "CXXFLAGS += $(xdma_CXXFLAGS) $(xcl2_CXXFLAGS)\n")
	assert.Contains(t, out, "LDFLAGS += $(xdma_LDFLAGS) $(xcl2_LDFLAGS)\n")
	assert.Contains(t, out, "HOST_SRCS += $(xdma_SRCS) $(xcl2_SRCS)\n")

	base := strings.Index(out, "HOST_SRCS = src/host.cpp")
	appended := strings.Index(out, "HOST_SRCS += $(xdma_SRCS)")
	require.GreaterOrEqual(t, base, 0)
	assert.Greater(t, appended, base, "library sources follow the base entries")
}

func TestEmit_NoLibraries(t *testing.T) {
	out := emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}]}`, core.LayoutLegacy, nil, Options{})

	assert.Contains(t, out, "#Include Libraries\ninclude $(ABS_COMMON_REPO)/libs/opencl/opencl.mk\n\n")
	assert.NotContains(t, out, "HOST_SRCS +=")
}

func TestEmit_Idempotent(t *testing.T) {
	input := `{"example":"demo","containers":[
		{"name":"c1","ldclflags":"--sp a:bank0","accelerators":[
			{"name":"a1","location":"s/a1.cl","max_memory_ports":true,"clflags":"--xp param:x=1"},
			{"name":"a2","location":"s/a2.cl"}]}],
		"libs":["xcl2"],"targets":["hw_emu"],"cmd_args":"./data/in.txt","em_cmd":"./host -x 1"}`

	first := emit(t, input, core.LayoutLegacy, nil, Options{})
	second := emit(t, input, core.LayoutLegacy, nil, Options{})
	assert.Equal(t, first, second)
}

func TestEmit_ParameterFlagDefaults(t *testing.T) {
	out := emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}]}`, core.LayoutLegacy, nil, Options{})

	assert.Contains(t, out, "XOCC := $(XILINX_SDX)/bin/xocc\n\n"+
		"CXXFLAGS := $(opencl_CXXFLAGS) -Wall -O0 -g -std=c++14\n"+
		"LDFLAGS := $(opencl_LDFLAGS)\n\n"+
		"HOST_SRCS = src/host.cpp\n")
	assert.Less(t, strings.Index(out, "CXXFLAGS := "), strings.Index(out, "CXXFLAGS = "))
}

func TestEmit_SectionOrder(t *testing.T) {
	out := emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}],"libs":["xcl2"],"targets":["hw"]}`,
		core.LayoutLegacy, nil, Options{})

	markers := []string{
		"DEVICES := ",
		"HOST_SRCS = src/host.cpp",
		"# Kernel compiler global settings",
		"BINARY_CONTAINERS += ",
		"#Include Libraries",
		".PHONY: all clean cleanall docs",
		"# Building kernel",
		"# Building Host",
		"check: all",
		"#Reporting warning if not targeting for Targets",
		"# Cleaning stuff",
		"help::",
		"docs: README.md",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(out, m)
		require.GreaterOrEqual(t, idx, 0, "missing %q", m)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}
	assert.Len(t, SectionNames(), 12)
}

func TestEmit_KernelFlags(t *testing.T) {
	out := emit(t, `{"accelerators":[
		{"name":"k1","location":"src/k1.cl","max_memory_ports":false,"clflags":"--xp param:compiler.x=1"},
		{"name":"k2","location":"src/k2.cl"}],
		"compiler":{"options":"-DUSE_FOO"}}`, core.LayoutLegacy, nil, Options{})

	assert.Contains(t, out, "CLFLAGS += --max_memory_ports k1\n")
	assert.NotContains(t, out, "--max_memory_ports k2")
	assert.Contains(t, out, `CLFLAGS += --xp "param:compiler.x=1"`+"\n")
	assert.Contains(t, out, "CXXFLAGS += -DUSE_FOO\n")
	assert.Contains(t, out, "LDCLFLAGS += --report system\n")
	assert.Contains(t, out, "EXECUTABLE = host\n")
}

func TestEmit_ContainerLinkFlags(t *testing.T) {
	out := emit(t, `{"containers":[{"name":"c1","ldclflags":"--sp k1.m_axi_gmem:bank0",
		"accelerators":[{"name":"k1","location":"src/k1.cl"}]}]}`, core.LayoutLegacy, nil, Options{})

	assert.Contains(t, out, "\t$(XOCC) $(CLFLAGS) -l $(LDCLFLAGS) --nk k1:1 --sp k1.m_axi_gmem:bank0 -o'$@' $(+)\n")
}

func TestEmit_Board(t *testing.T) {
	input := `{"accelerators":[{"name":"k1","location":"src/k1.cl"}],"board":["xilinx_vcu1525_dynamic"]}`
	out := emit(t, input, core.LayoutLegacy, nil, Options{})
	assert.Contains(t, out, "DEVICES := xilinx_vcu1525_dynamic\n")

	out = emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}]}`, core.LayoutLegacy, nil,
		Options{DefaultDevice: "xilinx_u200", CommonRepo: "../../"})
	assert.Contains(t, out, "DEVICES := xilinx_u200\n")
	assert.Contains(t, out, "COMMON_REPO = ../../\n")
}

func TestEmit_UnsupportedDeviceWarns(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	input := `{"accelerators":[{"name":"k1","location":"src/k1.cl"}],"nboard":["` + core.DefaultDevice + `"]}`

	out := emit(t, input, core.LayoutLegacy, nil, Options{Logger: logger})
	assert.Contains(t, out, "DEVICES := "+core.DefaultDevice+"\n")
	assert.True(t, logs.Contains("unsupported"))
}

func TestEmit_CheckTarget(t *testing.T) {
	out := emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}],
		"em_cmd":"./host -k ./xclbin/k1.xclbin","targets":["hw_emu","hw"]}`, core.LayoutLegacy, nil, Options{})

	assert.Contains(t, out, "ifeq ($(TARGET),$(filter $(TARGET),sw_emu hw_emu))\n"+
		"\temconfigutil --platform $(DEVICE) --od .\n"+
		"\tXCL_EMULATION_MODE=$(TARGET) ./$(EXECUTABLE) -k ./xclbin/k1.xclbin\n"+
		"\tsdx_analyze profile -i sdaccel_profile_summary.csv -f html\n"+
		"endif\n")
	assert.Contains(t, out, "ifneq (hw_emu,$(findstring hw_emu,$(TARGET)))\n"+
		"\t$(warning WARNING:Application supports only hw_emu TARGET. Please use the target for running the application)\n")
	assert.Equal(t, 2, strings.Count(out, "#Reporting warning if not targeting for Targets"))
}

func TestEmit_CheckWithoutEmulationArgs(t *testing.T) {
	out := emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}]}`, core.LayoutLegacy, nil, Options{})
	assert.Contains(t, out, "\tXCL_EMULATION_MODE=$(TARGET) ./$(EXECUTABLE)\n")
	assert.NotContains(t, out, "$(warning")
}

func TestEmit_DataDirectory(t *testing.T) {
	out := emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}],"cmd_args":"./xclbin/k1.xclbin ./data/in.bmp"}`,
		core.LayoutLegacy, nil, Options{})
	assert.Contains(t, out, "DATA = ./data\n")
	assert.Contains(t, out, "all: $(EXECUTABLE) $(BINARY_CONTAINERS)\n\t- if test -d $(DATA)")

	out = emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}],"cmd_args":"./xclbin/k1.xclbin"}`,
		core.LayoutLegacy, nil, Options{})
	assert.NotContains(t, out, "DATA = ./data")
}

func TestEmit_LegacyCollisionEmittedLiterally(t *testing.T) {
	out := emit(t, `{"containers":[{"name":"krnl","accelerators":[
		{"name":"read","location":"src/read.cl"},
		{"name":"write","location":"src/write.cl"}]}]}`, core.LayoutLegacy, nil, Options{})

	assert.Equal(t, 2, strings.Count(out, "$(XCLBIN)/krnl.$(TARGET).$(DSA).xo: "))
	assert.Equal(t, 2, strings.Count(out, "BINARY_CONTAINER_1_OBJS += $(XCLBIN)/krnl.$(TARGET).$(DSA).xo\n"))
}

func TestEmit_PerContainerLayout(t *testing.T) {
	out := emit(t, `{"containers":[
		{"name":"c1","accelerators":[{"name":"read","location":"src/read.cl"},{"name":"write","location":"src/write.cl"}]},
		{"name":"c2","accelerators":[{"name":"read","location":"src/read.cl"}]},
		{"name":"c3","accelerators":[{"name":"vadd","location":"src/vadd.cl"}]}]}`,
		core.LayoutPerContainer, nil, Options{})

	assert.Contains(t, out, "BINARY_CONTAINER_c1_OBJS += $(XCLBIN)/read.$(TARGET).$(DSA).xo\n")
	assert.Contains(t, out, "BINARY_CONTAINER_c1_OBJS += $(XCLBIN)/write.$(TARGET).$(DSA).xo\n")
	assert.Contains(t, out, "BINARY_CONTAINER_c2_OBJS += $(XCLBIN)/read.$(TARGET).$(DSA).xo\n")
	assert.Contains(t, out, "BINARY_CONTAINER_c3_OBJS += $(XCLBIN)/vadd.$(TARGET).$(DSA).xo\n")
	assert.Equal(t, 1, strings.Count(out, "ALL_KERNEL_OBJS += $(XCLBIN)/read.$(TARGET).$(DSA).xo\n"))
	assert.Equal(t, 1, strings.Count(out, "$(XCLBIN)/read.$(TARGET).$(DSA).xo: ./src/read.cl\n"))
}

func TestEmit_Docs(t *testing.T) {
	out := emit(t, `{"accelerators":[{"name":"k1","location":"src/k1.cl"}]}`, core.LayoutLegacy, nil,
		Options{DescriptionFile: "description.yaml"})
	assert.True(t, strings.HasSuffix(out, "docs: README.md\n\n"+
		"README.md: description.yaml\n"+
		"\t$(ABS_COMMON_REPO)/utility/readme_gen/readme_gen.py description.yaml\n\n"))
}

func TestEmit_RequiresInputs(t *testing.T) {
	_, err := Emit(nil, nil, nil, nil, Options{})
	assert.Error(t, err)
}

func TestProfileINI(t *testing.T) {
	assert.Equal(t, "[Debug]\nprofile=true\n", string(ProfileINI()))
}
