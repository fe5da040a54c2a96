package mistral

// 可用模型与默认参数。模型名不做白名单校验，未知名称交给 API 拒绝。
const (
	ModelSmall       = "mistral-small-latest"
	ModelMedium      = "mistral-medium-latest"
	ModelLarge       = "mistral-large-latest"
	ModelCodestral   = "codestral-latest"
	ModelOpen7B      = "open-mistral-7b"
	ModelOpenMixtral = "open-mixtral-8x7b"

	DefaultModel = ModelSmall

	defaultBaseURL = "https://api.mistral.ai/v1"
)

// Models 返回已知模型列表，供 CLI 提示使用。
func Models() []string {
	return []string{
		ModelSmall,
		ModelMedium,
		ModelLarge,
		ModelCodestral,
		ModelOpen7B,
		ModelOpenMixtral,
	}
}
