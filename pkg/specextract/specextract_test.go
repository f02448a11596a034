package specextract

import (
	"testing"

	"github.com/Aquilabot/KreaPC-Engine/internal/models"
	"github.com/stretchr/testify/require"
)

func TestExtractCPU(t *testing.T) {
	got := Extract("Intel Core i7-13700K Desktop Processor 16 Cores 5.4 GHz LGA1700 125W TDP")

	require.Equal(t, models.CategoryCPU, got.Category)
	require.Equal(t, "Intel", got.Brand)
	require.Equal(t, "i7-13700K", got.Model)

	socket, ok := got.Specs.String(models.SpecSocket)
	require.True(t, ok)
	require.Equal(t, "LGA1700", socket)

	tdp, ok := got.Specs.Number(models.SpecTDP)
	require.True(t, ok)
	require.Equal(t, 125.0, tdp)

	cores, ok := got.Specs.Number(models.SpecCores)
	require.True(t, ok)
	require.Equal(t, 16.0, cores)
}

func TestExtractSocketNormalization(t *testing.T) {
	got := Extract("AMD Ryzen 7 7800X3D 8-Core Processor Socket AM5 120W TDP")
	socket, ok := got.Specs.String(models.SpecSocket)
	require.True(t, ok)
	require.Equal(t, "AM5", socket)

	got = Extract("Intel Core i5-12400F LGA 1700 Desktop CPU")
	socket, ok = got.Specs.String(models.SpecSocket)
	require.True(t, ok)
	require.Equal(t, "LGA1700", socket)
}

func TestExtractRAM(t *testing.T) {
	got := Extract("Corsair Vengeance 32GB (2x16GB) DDR5 RAM 5600MHz")

	require.Equal(t, models.CategoryRAM, got.Category)
	memType, ok := got.Specs.String(models.SpecMemoryType)
	require.True(t, ok)
	require.Equal(t, "DDR5", memType)
}

func TestExtractGPUMemoryTypeNotConfusedWithGDDR(t *testing.T) {
	got := Extract("MSI GeForce RTX 4070 Ti GAMING X 12GB GDDR6X Graphics Card")

	require.Equal(t, models.CategoryGPU, got.Category)
	_, ok := got.Specs.String(models.SpecMemoryType)
	require.False(t, ok, "GDDR video memory is not a RAM memoryType")
}

func TestExtractPSUWattage(t *testing.T) {
	got := Extract("Corsair RM750e 750W 80 Plus Gold Fully Modular Power Supply")

	require.Equal(t, models.CategoryPSU, got.Category)
	watts, ok := got.Specs.Number(models.SpecWattage)
	require.True(t, ok)
	require.Equal(t, 750.0, watts)
}

func TestExtractRecommendedPSU(t *testing.T) {
	got := Extract("ZOTAC GeForce RTX 4070 Graphics Card, 650W PSU recommended")

	rec, ok := got.Specs.Number(models.SpecRecommendedPSU)
	require.True(t, ok)
	require.Equal(t, 650.0, rec)
}

func TestExtractLengthByCategory(t *testing.T) {
	gpu := Extract("Sapphire Radeon RX 7800 XT Graphics Card 320mm")
	length, ok := gpu.Specs.Number(models.SpecLength)
	require.True(t, ok)
	require.Equal(t, 320.0, length)
	_, ok = gpu.Specs.Number(models.SpecMaxGpuLength)
	require.False(t, ok)

	pcCase := Extract("NZXT H5 Flow Mid Tower PC Case, GPUs up to 365mm")
	maxLen, ok := pcCase.Specs.Number(models.SpecMaxGpuLength)
	require.True(t, ok)
	require.Equal(t, 365.0, maxLen)
}

func TestExtractUnknownTitle(t *testing.T) {
	got := Extract("Stainless Steel Kitchen Knife Set with Block")

	require.Equal(t, models.CategoryOther, got.Category)
	require.Empty(t, got.Brand)
	require.Empty(t, got.Model)
	require.Empty(t, got.Specs)
}

func TestRelevantGeneralSet(t *testing.T) {
	require.True(t, Relevant("AMD Ryzen 5 7600 Processor", ""))
	require.False(t, Relevant("Ceramic Flower Pot 20cm", ""))
}

func TestRelevantWithCategoryHint(t *testing.T) {
	require.True(t, Relevant("Samsung 990 PRO 2TB NVMe SSD", models.CategoryStorage))
	require.False(t, Relevant("AMD Ryzen 5 7600 Processor", models.CategoryStorage),
		"a category hint narrows the keyword set")
}

func TestDetectCategoryPrecedence(t *testing.T) {
	// "graphics card" must win over the RAM keywords its titles often carry.
	require.Equal(t, models.CategoryGPU, DetectCategory("ASUS TUF Graphics Card 16GB memory"))
}
