package vulkan

import (
	vk "github.com/vulkan-go/vulkan"

	"vkx/driver"
)

// check returns a *driver.Error naming call when res is an error code.
// Status codes such as VK_INCOMPLETE are not errors.
func check(call string, res vk.Result) error {
	if r := driver.Result(res); r.IsError() {
		return driver.NewError(call, r)
	}
	return nil
}
