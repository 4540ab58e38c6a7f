package tools

import "fmt"

// SetUserData remembers the student's name and age for this session.
func (t *Toolset) SetUserData(name string, age int) string {
	t.session.SetUserInfo(name, age)
	return fmt.Sprintf("Okay, now I will remember your name is %s and you are %d year old.", name, age)
}

// GetUserData recalls the stored name and age.
func (t *Toolset) GetUserData() string {
	info, ok := t.session.UserInfo()
	if !ok {
		return "I don't know your name. Please introduce your name and your age"
	}
	return fmt.Sprintf("Your name: %s and your age: %d", info.Name, info.Age)
}
